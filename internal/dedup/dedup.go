// Package dedup recognizes logical duplicates across repeated export runs.
//
// Identity is a priority chain: a stable unique id when the record carries
// one, else a content hash, else a composite of known business fields, else
// every field except the row sequence number. The chain is data-driven so
// tie-break behavior can be enumerated exactly in tests.
package dedup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one loosely-typed export row, as decoded from the source's JSON
// or SQLite dump.
type Record map[string]any

// Tier is one step of the identity chain. Fields are tried in order; the
// tier applies when at least one of its fields is present (and, for
// single-field tiers, non-empty).
type Tier struct {
	Name   string
	Fields []string
	// Exact requires the single field to be present and non-empty.
	// Composite tiers instead concatenate whichever fields exist.
	Exact bool
}

// Chain is the default identity chain, in priority order. The final
// all-fields fallback is implicit and always applies.
var Chain = []Tier{
	{Name: "uuid", Fields: []string{"uuid"}, Exact: true},
	{Name: "dedupe", Fields: []string{"dedupe_hash"}, Exact: true},
	{Name: "comp", Fields: []string{
		"start_time", "end_time", "time", "count",
		"app_info_id", "device_info_id", "recording_method", "local_date",
	}},
}

// rowSequenceField never participates in identity; it differs between
// otherwise identical rows of two exports.
const rowSequenceField = "row_id"

// Key derives the identity key for a record of the given table.
func Key(table string, rec Record) string {
	for _, tier := range Chain {
		if tier.Exact {
			v := stringify(rec[tier.Fields[0]])
			if v != "" && v != "null" {
				return table + "|" + tier.Name + "|" + v
			}
			continue
		}
		var parts []string
		for _, f := range tier.Fields {
			if v, ok := rec[f]; ok {
				parts = append(parts, stringify(v))
			}
		}
		if len(parts) > 0 {
			return table + "|" + tier.Name + "|" + strings.Join(parts, "|")
		}
	}

	// Last resort: every field except the row sequence, sorted by name for
	// determinism.
	names := make([]string, 0, len(rec))
	for k := range rec {
		if k != rowSequenceField {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + stringify(rec[k])
	}
	return table + "|row|" + strings.Join(parts, "|")
}

// Merge concatenates old-then-new and keeps the first occurrence of every
// identity key, preserving relative order. First seen wins: a re-exported
// duplicate never replaces the copy already held.
func Merge(table string, prev, next []Record) []Record {
	seen := map[string]bool{}
	out := make([]Record, 0, len(prev)+len(next))
	for _, rec := range append(append([]Record{}, prev...), next...) {
		k := Key(table, rec)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, rec)
	}
	return out
}

// MergeTables merges two whole exports table by table.
func MergeTables(prev, next map[string][]Record) map[string][]Record {
	tables := map[string]bool{}
	for t := range prev {
		tables[t] = true
	}
	for t := range next {
		tables[t] = true
	}
	merged := make(map[string][]Record, len(tables))
	for t := range tables {
		merged[t] = Merge(t, prev[t], next[t])
	}
	return merged
}

func stringify(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
