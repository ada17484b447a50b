// Package export implements the collaborator side of the source-export
// boundaries: the wearable database dump, the paperless document export and
// the iCalendar-to-tabular converter.
package export

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/piquique/daybook/internal/dedup"
)

// HealthDump extracts the wearable's ZIP export, dumps every non-empty
// table of the contained SQLite database, and writes the JSON document the
// health aggregator consumes. With merge enabled the previous JSON is
// reconciled through the dedup engine (first-seen wins), so re-running over
// overlapping exports is idempotent.
func HealthDump(ctx context.Context, zipPath, extractDir, outPath string, merge bool) error {
	if err := extractOnce(zipPath, extractDir); err != nil {
		return err
	}

	dbPath, err := findDB(extractDir)
	if err != nil {
		return err
	}

	tables, err := dumpTables(ctx, dbPath)
	if err != nil {
		return err
	}

	if merge {
		if prev, err := readExport(outPath); err == nil {
			tables = dedup.MergeTables(prev, tables)
			log.Info().Int("tables", len(tables)).Msg("merged with previous export")
		}
	}

	return writeExport(outPath, tables)
}

// extractOnce unpacks the ZIP unless the extraction directory already
// exists; repeated runs reuse the unpacked copy.
func extractOnce(zipPath, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open health zip: %w", err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		dest := filepath.Join(dir, filepath.Clean(f.Name))
		if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes extraction dir: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := copyZipEntry(f, dest); err != nil {
			return err
		}
	}
	log.Info().Str("dir", dir).Msg("health export extracted")
	return nil
}

func copyZipEntry(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, src)
	return err
}

func findDB(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".db") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no .db file inside %s", dir)
}

// dumpTables reads every user table with at least one row into loosely
// typed records.
func dumpTables(ctx context.Context, dbPath string) (map[string][]dedup.Record, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	names, err := tableNames(ctx, db)
	if err != nil {
		return nil, err
	}

	out := map[string][]dedup.Record{}
	for _, name := range names {
		recs, err := dumpTable(ctx, db, name)
		if err != nil {
			log.Warn().Str("table", name).Err(err).Msg("table skipped")
			continue
		}
		if len(recs) > 0 {
			out[name] = recs
			log.Info().Str("table", name).Int("rows", len(recs)).Msg("table exported")
		}
	}
	return out, nil
}

func tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type='table'`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func dumpTable(ctx context.Context, db *sql.DB, table string) ([]dedup.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var recs []dedup.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(dedup.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = vals[i]
			}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func readExport(path string) (map[string][]dedup.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_meta")

	out := map[string][]dedup.Record{}
	for table, body := range doc {
		var recs []dedup.Record
		if err := json.Unmarshal(body, &recs); err != nil {
			// Non-table entry in an older export; ignore it.
			continue
		}
		out[table] = recs
	}
	return out, nil
}

// writeExport persists the dump with an _meta.exported_at millisecond
// stamp, via temp file + rename so a failed run cannot truncate the
// previous export.
func writeExport(path string, tables map[string][]dedup.Record) error {
	doc := make(map[string]any, len(tables)+1)
	for t, recs := range tables {
		doc[t] = recs
	}
	doc["_meta"] = map[string]any{"exported_at": time.Now().UnixMilli()}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

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
	if _, err := tmp.Write(raw); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
