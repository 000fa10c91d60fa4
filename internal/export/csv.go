package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"member-heatmap/internal/charset"
	"member-heatmap/internal/models"
)

// FileName is the download name of the CSV output.
const FileName = "output_with_latlng.csv"

const bom = "\ufeff"

// Header is the column layout of the CSV output.
var Header = []string{"緯度", "経度", "count"}

var englishHeader = []string{"latitude", "longitude", "weight"}

// ErrUnexpectedHeader is returned by ReadCSV for files not written by WriteCSV.
var ErrUnexpectedHeader = errors.New("export: unexpected csv header")

// WriteCSV writes the points as UTF-8 with a byte order mark so spreadsheet software
// detects the encoding.
func WriteCSV(w io.Writer, points []models.Point) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("export: failed to write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("export: failed to write header: %w", err)
	}
	for _, p := range points {
		record := []string{
			strconv.FormatFloat(p.Latitude, 'f', -1, 64),
			strconv.FormatFloat(p.Longitude, 'f', -1, 64),
			strconv.Itoa(p.Weight),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("export: failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a file produced by WriteCSV. The english header is accepted as well.
func ReadCSV(r io.Reader) ([]models.Point, error) {
	decoded, err := charset.NewReader(r, "utf-8")
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("export: failed to read header: %w", err)
	}
	if !sameHeader(header, Header) && !sameHeader(header, englishHeader) {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedHeader, header)
	}

	var points []models.Point
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: failed to read line %d: %w", line, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("export: invalid latitude on line %d: %w", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("export: invalid longitude on line %d: %w", line, err)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("export: invalid count on line %d: %w", line, err)
		}
		points = append(points, models.Point{Latitude: lat, Longitude: lon, Weight: weight})
	}
	return points, nil
}

func sameHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}
