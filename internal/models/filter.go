package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterKind is the kind of selection control a roster column supports.
type FilterKind string

const (
	FilterCategorical FilterKind = "categorical"
	FilterRange       FilterKind = "range"
)

// FilterColumn is a column the filter stage recognises.
type FilterColumn struct {
	Name string     `json:"name"`
	Kind FilterKind `json:"kind"`
}

// DefaultFilterColumns returns the shop, gender, rank, visit count and last-used store columns.
func DefaultFilterColumns() []FilterColumn {
	return []FilterColumn{
		{Name: "店舗", Kind: FilterCategorical},
		{Name: "性別", Kind: FilterCategorical},
		{Name: "会員ランク", Kind: FilterCategorical},
		{Name: "来店回数", Kind: FilterRange},
		{Name: "最終利用店舗", Kind: FilterCategorical},
	}
}

// FilterControl describes the selection control offered for one column present in a roster.
type FilterControl struct {
	Column string     `json:"column"`
	Kind   FilterKind `json:"kind"`
	Values []string   `json:"values,omitempty"`
	Min    float64    `json:"min,omitempty"`
	Max    float64    `json:"max,omitempty"`
}

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ParseRange parses "lo:hi". Either bound may be omitted to leave that side open.
func ParseRange(s string) (Range, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return Range{}, fmt.Errorf("invalid range %q: want lo:hi", s)
	}
	r := Range{Min: math.Inf(-1), Max: math.Inf(1)}
	if lo = strings.TrimSpace(lo); lo != "" {
		v, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range lower bound %q: %w", lo, err)
		}
		r.Min = v
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		v, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range upper bound %q: %w", hi, err)
		}
		r.Max = v
	}
	if r.Min > r.Max {
		return Range{}, fmt.Errorf("invalid range %q: lower bound exceeds upper bound", s)
	}
	return r, nil
}

// FilterSelection holds the values chosen for each filter control. A column with no
// entry is not filtered.
type FilterSelection struct {
	Values map[string][]string `json:"values,omitempty"`
	Ranges map[string]Range    `json:"ranges,omitempty"`
}

// Empty reports whether the selection filters nothing.
func (s FilterSelection) Empty() bool {
	return len(s.Values) == 0 && len(s.Ranges) == 0
}
