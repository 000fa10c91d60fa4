package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"member-heatmap/internal/models"
)

// DescribeFilters returns a control for every recognised column present in the roster.
// Categorical controls list the distinct values, including "" when some cells are blank;
// range controls span the parseable values of the column. Feeding every control back
// unchanged to ApplyFilters keeps all rows.
func DescribeFilters(r *models.Roster, columns []models.FilterColumn) []models.FilterControl {
	var controls []models.FilterControl
	for _, col := range columns {
		if !r.Has(col.Name) {
			continue
		}
		control := models.FilterControl{Column: col.Name, Kind: col.Kind}

		switch col.Kind {
		case models.FilterRange:
			first := true
			for i := 0; i < r.Len(); i++ {
				v, ok := parseNumber(r.Value(i, col.Name))
				if !ok {
					continue
				}
				if first || v < control.Min {
					control.Min = v
				}
				if first || v > control.Max {
					control.Max = v
				}
				first = false
			}
		default:
			seen := make(map[string]struct{})
			for i := 0; i < r.Len(); i++ {
				v := r.Value(i, col.Name)
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				control.Values = append(control.Values, v)
			}
			sort.Strings(control.Values)
		}

		controls = append(controls, control)
	}
	return controls
}

// ApplyFilters keeps the rows matching every selection for a column present in the roster.
// A categorical selection keeps rows whose value is listed; a range keeps rows whose value
// parses and lies in the closed interval. A range covering every parseable value of its
// column filters nothing, so blank and unparseable cells survive the default range.
// Selections for absent columns are ignored.
func ApplyFilters(r *models.Roster, sel models.FilterSelection) *models.Roster {
	if sel.Empty() {
		return r
	}

	allowed := make(map[string]map[string]struct{})
	for col, values := range sel.Values {
		if !r.Has(col) {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[strings.TrimSpace(v)] = struct{}{}
		}
		allowed[col] = set
	}
	ranges := make(map[string]models.Range)
	for col, rng := range sel.Ranges {
		if r.Has(col) && narrows(r, col, rng) {
			ranges[col] = rng
		}
	}

	return r.Filter(func(i int) bool {
		for col, set := range allowed {
			if _, ok := set[r.Value(i, col)]; !ok {
				return false
			}
		}
		for col, rng := range ranges {
			v, ok := parseNumber(r.Value(i, col))
			if !ok || !rng.Contains(v) {
				return false
			}
		}
		return true
	})
}

// narrows reports whether some parseable value of column lies outside rng.
func narrows(r *models.Roster, column string, rng models.Range) bool {
	for i := 0; i < r.Len(); i++ {
		if v, ok := parseNumber(r.Value(i, column)); ok && !rng.Contains(v) {
			return true
		}
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
