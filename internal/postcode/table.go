// Package postcode holds the read-only postal code master used to turn postal codes into
// address strings.
package postcode

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"member-heatmap/internal/charset"
	"member-heatmap/internal/models"
)

// Column positions in KEN_ALL.csv.
const (
	colCode         = 2
	colPrefecture   = 6
	colMunicipality = 7
	colTown         = 8
	minColumns      = colTown + 1
)

// Table is an immutable postal code lookup. It is built once and shared by reference.
type Table struct {
	entries map[string]models.PostalCode
}

// NewTable indexes entries by normalised code. When a code appears more than once the
// first entry wins, matching the order of the postal master.
func NewTable(entries []models.PostalCode) *Table {
	t := &Table{entries: make(map[string]models.PostalCode, len(entries))}
	for _, e := range entries {
		key, ok := Normalize(e.Code)
		if !ok {
			continue
		}
		if _, exists := t.entries[key]; exists {
			continue
		}
		e.Code = key
		t.entries[key] = e
	}
	return t
}

// Lookup returns the entry for a 7-digit key.
func (t *Table) Lookup(code string) (models.PostalCode, bool) {
	if t == nil {
		return models.PostalCode{}, false
	}
	e, ok := t.entries[code]
	return e, ok
}

// Len returns the number of distinct codes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Parse reads the KEN_ALL.csv layout (15 columns, no header) in the given encoding.
// Rows with too few columns or an invalid code are skipped.
func Parse(r io.Reader, encoding string) ([]models.PostalCode, error) {
	decoded, err := charset.NewReader(r, encoding)
	if err != nil {
		return nil, fmt.Errorf("postcode: %w", err)
	}

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var codes []models.PostalCode
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("postcode: failed to read record: %w", err)
		}
		if len(record) < minColumns {
			continue
		}
		key, ok := Normalize(record[colCode])
		if !ok {
			continue
		}
		codes = append(codes, models.PostalCode{
			Code:         key,
			Prefecture:   record[colPrefecture],
			Municipality: record[colMunicipality],
			Town:         CleanTown(record[colTown]),
		})
	}
	return codes, nil
}

// LoadFile parses a KEN_ALL.csv file into a Table.
func LoadFile(path, encoding string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("postcode: failed to open file: %w", err)
	}
	defer f.Close()

	codes, err := Parse(f, encoding)
	if err != nil {
		return nil, err
	}
	return NewTable(codes), nil
}

// Lister is a store of postal codes, such as the PostgreSQL repository.
type Lister interface {
	ListPostalCodes(ctx context.Context) ([]models.PostalCode, error)
}

// LoadFrom builds a Table from a store.
func LoadFrom(ctx context.Context, src Lister) (*Table, error) {
	codes, err := src.ListPostalCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("postcode: failed to list postal codes: %w", err)
	}
	return NewTable(codes), nil
}
