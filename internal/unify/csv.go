package unify

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// Columns is the fixed snapshot column set. The narrative layer reads these
// names verbatim, so they never change independently of it.
var Columns = []string{
	"fecha",
	"pasos", "distancia_km", "ejercicio_min", "horas_sueno", "calorias",
	"fotos_cantidad", "fotos_hora_inicio", "fotos_hora_fin", "fotos_nombres",
	"evento_titulo", "evento_ubicacion", "evento_descripcion",
	"evento_hora_inicio", "evento_hora_fin",
	"doc_id", "doc_titulo", "doc_filename", "doc_paginas",
}

func rowValues(r model.UnifiedRow) []string {
	return []string{
		r.Day.String(),
		r.Steps, r.DistanceKm, r.ExerciseMin, r.SleepHours, r.Calories,
		r.PhotoCount, r.PhotoFirst, r.PhotoLast, r.PhotoNames,
		r.EventTitle, r.EventLocation, r.EventDescription,
		r.EventStart, r.EventEnd,
		r.DocID, r.DocTitle, r.DocFilename, r.DocPages,
	}
}

// WriteSnapshot persists the unified rows as CSV. The write goes to a temp
// file in the destination directory and renames into place, so a failed run
// leaves any previous snapshot untouched.
func WriteSnapshot(path string, rows []model.UnifiedRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(rowValues(r)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadSnapshot loads a previously written unified CSV. Column order is
// resolved by header name, not position, so a reordered snapshot still
// loads.
func ReadSnapshot(path string) ([]model.UnifiedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("snapshot %s: empty file", path)
		}
		return nil, err
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[name] = i
	}
	get := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []model.UnifiedRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.UnifiedRow{
			Day:              dates.Day(get(rec, "fecha")),
			Steps:            get(rec, "pasos"),
			DistanceKm:       get(rec, "distancia_km"),
			ExerciseMin:      get(rec, "ejercicio_min"),
			SleepHours:       get(rec, "horas_sueno"),
			Calories:         get(rec, "calorias"),
			PhotoCount:       get(rec, "fotos_cantidad"),
			PhotoFirst:       get(rec, "fotos_hora_inicio"),
			PhotoLast:        get(rec, "fotos_hora_fin"),
			PhotoNames:       get(rec, "fotos_nombres"),
			EventTitle:       get(rec, "evento_titulo"),
			EventLocation:    get(rec, "evento_ubicacion"),
			EventDescription: get(rec, "evento_descripcion"),
			EventStart:       get(rec, "evento_hora_inicio"),
			EventEnd:         get(rec, "evento_hora_fin"),
			DocID:            get(rec, "doc_id"),
			DocTitle:         get(rec, "doc_titulo"),
			DocFilename:      get(rec, "doc_filename"),
			DocPages:         get(rec, "doc_paginas"),
		})
	}
	return rows, nil
}
