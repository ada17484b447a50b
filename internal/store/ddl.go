package store

// DDL shared by both backends. Kept to types every SQL dialect in use
// accepts unchanged.
var DDL = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		row_count INTEGER NOT NULL,
		day_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS unified_rows (
		run_id TEXT NOT NULL,
		slot INTEGER NOT NULL,
		fecha TEXT NOT NULL,
		pasos TEXT NOT NULL,
		distancia_km TEXT NOT NULL,
		ejercicio_min TEXT NOT NULL,
		horas_sueno TEXT NOT NULL,
		calorias TEXT NOT NULL,
		fotos_cantidad TEXT NOT NULL,
		fotos_hora_inicio TEXT NOT NULL,
		fotos_hora_fin TEXT NOT NULL,
		fotos_nombres TEXT NOT NULL,
		evento_titulo TEXT NOT NULL,
		evento_ubicacion TEXT NOT NULL,
		evento_descripcion TEXT NOT NULL,
		evento_hora_inicio TEXT NOT NULL,
		evento_hora_fin TEXT NOT NULL,
		doc_id TEXT NOT NULL,
		doc_titulo TEXT NOT NULL,
		doc_filename TEXT NOT NULL,
		doc_paginas TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_unified_rows_run_day ON unified_rows (run_id, fecha)`,
}
