// Package sqlite implements the snapshot store on a local SQLite file. It
// is the default backend: one user, one machine, no server to run.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
	"github.com/piquique/daybook/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode for read-heavy service traffic.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the store and ensures its schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires the store onto an existing connection (used by tests and
// the factory).
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range store.DDL {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct {
	db *sql.DB
}

func (s *sqliteStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) SaveRun(ctx context.Context, run store.Run, rows []model.UnifiedRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, row_count, day_count) VALUES (?,?,?,?)`,
		run.RunID, run.CreatedAt.UTC(), run.RowCount, run.DayCount); err != nil {
		return err
	}
	for slot, r := range rows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO unified_rows (
			run_id, slot, fecha,
			pasos, distancia_km, ejercicio_min, horas_sueno, calorias,
			fotos_cantidad, fotos_hora_inicio, fotos_hora_fin, fotos_nombres,
			evento_titulo, evento_ubicacion, evento_descripcion, evento_hora_inicio, evento_hora_fin,
			doc_id, doc_titulo, doc_filename, doc_paginas
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			run.RunID, slot, r.Day.String(),
			r.Steps, r.DistanceKm, r.ExerciseMin, r.SleepHours, r.Calories,
			r.PhotoCount, r.PhotoFirst, r.PhotoLast, r.PhotoNames,
			r.EventTitle, r.EventLocation, r.EventDescription, r.EventStart, r.EventEnd,
			r.DocID, r.DocTitle, r.DocFilename, r.DocPages); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) LatestRun(ctx context.Context) (store.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, row_count, day_count FROM runs ORDER BY created_at DESC LIMIT 1`)
	return scanRun(row)
}

func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, row_count, day_count FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []store.Run
	for rows.Next() {
		var r store.Run
		var created time.Time
		if err := rows.Scan(&r.RunID, &created, &r.RowCount, &r.DayCount); err != nil {
			return nil, err
		}
		r.CreatedAt = created
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *sqliteStore) RowsForDay(ctx context.Context, day dates.Day) ([]model.UnifiedRow, error) {
	latest, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		fecha,
		pasos, distancia_km, ejercicio_min, horas_sueno, calorias,
		fotos_cantidad, fotos_hora_inicio, fotos_hora_fin, fotos_nombres,
		evento_titulo, evento_ubicacion, evento_descripcion, evento_hora_inicio, evento_hora_fin,
		doc_id, doc_titulo, doc_filename, doc_paginas
		FROM unified_rows WHERE run_id = ? AND fecha = ? ORDER BY slot`,
		latest.RunID, day.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.UnifiedRow
	for rows.Next() {
		r, err := scanUnifiedRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, model.ErrNotFound
	}
	return out, nil
}

func scanRun(row *sql.Row) (store.Run, error) {
	var r store.Run
	var created time.Time
	err := row.Scan(&r.RunID, &created, &r.RowCount, &r.DayCount)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, model.ErrNotFound
	}
	if err != nil {
		return store.Run{}, err
	}
	r.CreatedAt = created
	return r, nil
}

func scanUnifiedRow(rows *sql.Rows) (model.UnifiedRow, error) {
	var r model.UnifiedRow
	var fecha string
	err := rows.Scan(&fecha,
		&r.Steps, &r.DistanceKm, &r.ExerciseMin, &r.SleepHours, &r.Calories,
		&r.PhotoCount, &r.PhotoFirst, &r.PhotoLast, &r.PhotoNames,
		&r.EventTitle, &r.EventLocation, &r.EventDescription, &r.EventStart, &r.EventEnd,
		&r.DocID, &r.DocTitle, &r.DocFilename, &r.DocPages)
	if err != nil {
		return model.UnifiedRow{}, err
	}
	r.Day = dates.Day(fecha)
	return r, nil
}
