// Package roster reads uploaded member tables into models.Roster.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"member-heatmap/internal/charset"
	"member-heatmap/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx/v2"
)

// ErrEmptyRoster is returned when the file has no header row.
var ErrEmptyRoster = errors.New("roster: file is empty")

// Reader decodes roster files. CSV input is decoded from the configured encoding;
// spreadsheets are always read from their first sheet.
type Reader struct {
	encoding string
}

// NewReader creates a reader for CSV files in the given encoding (e.g. "cp932").
func NewReader(encoding string) *Reader {
	return &Reader{encoding: encoding}
}

// Read picks the format from the file name: .xlsx files are read as spreadsheets,
// everything else as CSV.
func (r *Reader) Read(name string, src io.Reader) (*models.Roster, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return r.ReadXLSX(src)
	}
	return r.ReadCSV(src)
}

// ReadFile opens path and reads it with Read.
func (r *Reader) ReadFile(path string) (*models.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: failed to open file: %w", err)
	}
	defer f.Close()
	return r.Read(path, f)
}

// ReadCSV reads a CSV roster. Lines that cannot be parsed or that carry more fields than
// the header are skipped with a warning; short lines are kept and their missing cells
// read as empty.
func (r *Reader) ReadCSV(src io.Reader) (*models.Roster, error) {
	decoded, err := charset.NewReader(src, r.encoding)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyRoster
	}
	if err != nil {
		return nil, fmt.Errorf("roster: failed to read header: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn().Err(err).Int("line", parseErr.Line).Msg("skipping malformed roster line")
				continue
			}
			return nil, fmt.Errorf("roster: failed to read record: %w", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			log.Warn().Int("line", line).Int("fields", len(record)).Int("expected", len(header)).
				Msg("skipping roster line with too many fields")
			continue
		}
		records = append(records, record)
	}

	return models.NewRoster(header, records), nil
}

// ReadXLSX reads the first sheet of a spreadsheet. The first non-empty row is the header
// and blank rows are dropped.
func (r *Reader) ReadXLSX(src io.Reader) (*models.Roster, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return nil, fmt.Errorf("roster: failed to read spreadsheet: %w", err)
	}

	f, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("roster: failed to open spreadsheet: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, ErrEmptyRoster
	}

	var header []string
	var records [][]string
	for _, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		blank := true
		for i, cell := range row.Cells {
			cells[i] = cell.String()
			if strings.TrimSpace(cells[i]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if header == nil {
			header = cells
			continue
		}
		records = append(records, cells)
	}
	if header == nil {
		return nil, ErrEmptyRoster
	}

	return models.NewRoster(header, records), nil
}
