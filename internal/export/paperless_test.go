package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPaperlessDB(t *testing.T, dir string) string {
	t.Helper()
	dbPath := filepath.Join(dir, "paperless.db")
	db, err := sql.Open("sqlite", "file:"+dbPath)
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE documents_document (
			id INTEGER PRIMARY KEY, title TEXT, modified TEXT,
			filename TEXT, page_count INTEGER)`,
		`INSERT INTO documents_document VALUES (12, 'Factura', '2025-11-07 10:12:00.123', 'factura.pdf', 2)`,
		`INSERT INTO documents_document VALUES (13, 'Contrato', '2025-11-20 16:40:01', 'contrato.pdf', 8)`,
		`INSERT INTO documents_document VALUES (14, 'Sin archivo', '2025-01-02 08:00:00', NULL, NULL)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
	return dbPath
}

func TestPaperlessExportNewestFirst(t *testing.T) {
	dir := t.TempDir()
	dbPath := buildPaperlessDB(t, dir)
	outPath := filepath.Join(dir, "out", "documentos.csv")

	require.NoError(t, Paperless(context.Background(), dbPath, outPath))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"id", "title", "modified", "filename", "page_count"}, records[0])
	assert.Equal(t, "13", records[1][0], "newest modified first")
	assert.Equal(t, "12", records[2][0])
	assert.Equal(t, "14", records[3][0])
}

func TestPaperlessExportNullableColumns(t *testing.T) {
	dir := t.TempDir()
	dbPath := buildPaperlessDB(t, dir)
	outPath := filepath.Join(dir, "documentos.csv")

	require.NoError(t, Paperless(context.Background(), dbPath, outPath))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	last := records[len(records)-1]
	assert.Equal(t, "Sin archivo", last[1])
	assert.Empty(t, last[3], "NULL filename exports empty")
	assert.Empty(t, last[4], "NULL page_count exports empty")
}

func TestPaperlessMissingTable(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "empty.db")
	db, err := sql.Open("sqlite", "file:"+dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, db.Close())

	err = Paperless(context.Background(), dbPath, filepath.Join(dir, "out.csv"))
	assert.Error(t, err)
}
