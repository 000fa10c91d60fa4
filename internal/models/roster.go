package models

import "strings"

// Columns names the roster columns the pipeline reads location fragments from.
type Columns struct {
	PostalCode   string `json:"postal_code"`
	Prefecture   string `json:"prefecture"`
	Municipality string `json:"municipality"`
	Town         string `json:"town"`
	Block        string `json:"block"`
	// Weight is optional; when set and present it overrides the per-row weight in address mode.
	Weight string `json:"weight,omitempty"`
}

// DefaultColumns returns the column names used by the member roster export.
func DefaultColumns() Columns {
	return Columns{
		PostalCode:   "郵便番号",
		Prefecture:   "都道府県",
		Municipality: "市区町村",
		Town:         "町域",
		Block:        "番地",
	}
}

// Roster is an uploaded member table held in memory. Records may be shorter than the
// header; missing cells read as empty strings.
type Roster struct {
	Columns []string
	Records [][]string

	index map[string]int
}

// NewRoster builds a roster and indexes its header. Column names are trimmed and a
// leading byte order mark on the first header cell is dropped.
func NewRoster(columns []string, records [][]string) *Roster {
	cols := make([]string, len(columns))
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		c = strings.TrimSpace(c)
		cols[i] = c
		if _, seen := index[c]; !seen {
			index[c] = i
		}
	}
	return &Roster{Columns: cols, Records: records, index: index}
}

// Len returns the number of data rows.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Records)
}

// Has reports whether the header contains the named column.
func (r *Roster) Has(column string) bool {
	_, ok := r.index[column]
	return ok
}

// Value returns the trimmed cell of row i in the named column, or "" when the column or
// cell is absent.
func (r *Roster) Value(i int, column string) string {
	idx, ok := r.index[column]
	if !ok || i < 0 || i >= len(r.Records) {
		return ""
	}
	rec := r.Records[i]
	if idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// Missing returns the names in columns that the header lacks, in the given order.
// Empty names are ignored.
func (r *Roster) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if c == "" {
			continue
		}
		if !r.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Filter returns a roster sharing the header that keeps the rows for which keep is true.
func (r *Roster) Filter(keep func(i int) bool) *Roster {
	out := &Roster{Columns: r.Columns, index: r.index}
	for i, rec := range r.Records {
		if keep(i) {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}
