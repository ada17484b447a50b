package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Paperless reads the document table from a paperless-ngx SQLite copy and
// writes the tabular export the documents aggregator consumes. Rows come
// out newest-modified first, matching the upstream export.
func Paperless(ctx context.Context, dbPath, outPath string) error {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `SELECT id, title, modified, filename, page_count
		FROM documents_document ORDER BY modified DESC`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(outPath)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{"id", "title", "modified", "filename", "page_count"}); err != nil {
		return err
	}

	count := 0
	for rows.Next() {
		var id int64
		var title, modified string
		var filename, pageCount sql.NullString
		if err := rows.Scan(&id, &title, &modified, &filename, &pageCount); err != nil {
			return err
		}
		if err := w.Write([]string{
			strconv.FormatInt(id, 10), title, modified,
			filename.String, pageCount.String,
		}); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return err
	}
	log.Info().Int("documents", count).Str("path", outPath).Msg("paperless export written")
	return nil
}
