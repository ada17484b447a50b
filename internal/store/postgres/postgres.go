// Package postgres implements the snapshot store on PostgreSQL via the pgx
// stdlib driver, for deployments where the service runs away from the
// machine that produced the exports.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
	"github.com/piquique/daybook/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
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
func New(dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires the store onto an existing connection.
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range store.DDL {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &pgStore{db: db}, nil
}

type pgStore struct {
	db *sql.DB
}

func (s *pgStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *pgStore) Close() error { return s.db.Close() }

func (s *pgStore) SaveRun(ctx context.Context, run store.Run, rows []model.UnifiedRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, row_count, day_count) VALUES ($1,$2,$3,$4)`,
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
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
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

func (s *pgStore) LatestRun(ctx context.Context) (store.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, row_count, day_count FROM runs ORDER BY created_at DESC LIMIT 1`)
	return scanRun(row)
}

func (s *pgStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, row_count, day_count FROM runs ORDER BY created_at DESC LIMIT $1`, limit)
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

func (s *pgStore) RowsForDay(ctx context.Context, day dates.Day) ([]model.UnifiedRow, error) {
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
		FROM unified_rows WHERE run_id = $1 AND fecha = $2 ORDER BY slot`,
		latest.RunID, day.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.UnifiedRow
	for rows.Next() {
		var r model.UnifiedRow
		var fecha string
		if err := rows.Scan(&fecha,
			&r.Steps, &r.DistanceKm, &r.ExerciseMin, &r.SleepHours, &r.Calories,
			&r.PhotoCount, &r.PhotoFirst, &r.PhotoLast, &r.PhotoNames,
			&r.EventTitle, &r.EventLocation, &r.EventDescription, &r.EventStart, &r.EventEnd,
			&r.DocID, &r.DocTitle, &r.DocFilename, &r.DocPages); err != nil {
			return nil, err
		}
		r.Day = dates.Day(fecha)
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
