package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"member-heatmap/internal/models"
	"member-heatmap/internal/postcode"
)

// ErrNoReferenceTable is returned for postal-code mode when no postal master was loaded.
var ErrNoReferenceTable = errors.New("postal code reference table is not loaded")

// MissingColumnsError reports required roster columns absent from the upload.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns are missing: %v", e.Columns)
}

// PostalLookup resolves a 7-digit postal code to its master entry.
type PostalLookup interface {
	Lookup(code string) (models.PostalCode, bool)
}

// KeyBuilder turns roster rows into geocoding targets.
type KeyBuilder struct {
	table   PostalLookup
	columns models.Columns
}

// NewKeyBuilder creates a key builder. table may be nil when only address mode is used.
func NewKeyBuilder(table PostalLookup, columns models.Columns) *KeyBuilder {
	return &KeyBuilder{table: table, columns: columns}
}

// RequiredColumns lists the roster columns a mode cannot run without.
func (b *KeyBuilder) RequiredColumns(mode models.Mode) []string {
	if mode == models.ModeAddress {
		return []string{b.columns.Prefecture, b.columns.Municipality, b.columns.Town, b.columns.Block}
	}
	return []string{b.columns.PostalCode}
}

// Build derives the targets for mode. Missing cells are empty strings, never errors.
func (b *KeyBuilder) Build(r *models.Roster, mode models.Mode) ([]models.Target, error) {
	if missing := r.Missing(b.RequiredColumns(mode)...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	switch mode {
	case models.ModePostalCode:
		if b.table == nil {
			return nil, ErrNoReferenceTable
		}
		return b.byPostalCode(r), nil
	case models.ModeAddress:
		return b.byAddress(r), nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownMode, mode)
}

// byPostalCode counts rows per normalised postal code and joins the postal master.
// Codes missing from the master keep an empty address. Groups are ordered by count,
// then by key.
func (b *KeyBuilder) byPostalCode(r *models.Roster) []models.Target {
	counts := make(map[string]int)
	for i := 0; i < r.Len(); i++ {
		raw := r.Value(i, b.columns.PostalCode)
		if raw == "" {
			continue
		}
		key, _ := postcode.Normalize(raw)
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	targets := make([]models.Target, 0, len(keys))
	for _, k := range keys {
		var address string
		if entry, ok := b.table.Lookup(k); ok {
			address = entry.Address()
		}
		targets = append(targets, models.Target{
			Key:     k,
			Address: address,
			Weight:  strconv.Itoa(counts[k]),
		})
	}
	return targets
}

// byAddress concatenates prefecture, municipality, town and block for every row.
func (b *KeyBuilder) byAddress(r *models.Roster) []models.Target {
	useWeight := b.columns.Weight != "" && r.Has(b.columns.Weight)

	targets := make([]models.Target, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		weight := "1"
		if useWeight {
			weight = r.Value(i, b.columns.Weight)
		}
		targets = append(targets, models.Target{
			Key: strconv.Itoa(i + 1),
			Address: r.Value(i, b.columns.Prefecture) +
				r.Value(i, b.columns.Municipality) +
				r.Value(i, b.columns.Town) +
				r.Value(i, b.columns.Block),
			Weight: weight,
		})
	}
	return targets
}
