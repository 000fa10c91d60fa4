package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"member-heatmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []models.Point {
	return []models.Point{
		{Latitude: 35.685175, Longitude: 139.753595, Weight: 2},
		{Latitude: 43.060234, Longitude: 141.347893, Weight: 1},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePoints()))

	assert.Equal(t, "\ufeff緯度,経度,count\n35.685175,139.753595,2\n43.060234,141.347893,1\n", buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "\ufeff緯度,経度,count\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	points := append(samplePoints(), models.Point{Latitude: -33.8688197, Longitude: 151.2092955, Weight: 0})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, points, got)
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []models.Point
		expectedErr error
		expectErr   bool
	}{
		{
			name:     "english header without bom",
			input:    "latitude,longitude,weight\n35.5,139.5,3\n",
			expected: []models.Point{{Latitude: 35.5, Longitude: 139.5, Weight: 3}},
		},
		{
			name:        "unexpected header",
			input:       "lat,lon\n35,139\n",
			expectedErr: ErrUnexpectedHeader,
			expectErr:   true,
		},
		{
			name:      "invalid count",
			input:     "緯度,経度,count\n35,139,many\n",
			expectErr: true,
		},
		{
			name:      "empty file",
			input:     "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.input))
			if tt.expectErr {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, samplePoints()))

	var doc struct {
		Type     string    `json:"type"`
		BBox     []float64 `json:"bbox"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]float64 `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{139.753595, 35.685175}, doc.Features[0].Geometry.Coordinates)
	assert.Equal(t, float64(2), doc.Features[0].Properties["weight"])
	assert.Equal(t, []float64{139.753595, 35.685175, 141.347893, 43.060234}, doc.BBox)
}

func TestFeatureCollection_Empty(t *testing.T) {
	fc := FeatureCollection(nil)

	assert.Empty(t, fc.Features)
	assert.Nil(t, fc.BBox)
}

func TestRenderer_Heatmap(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Heatmap(&buf, &models.Heatmap{
		Points:  samplePoints(),
		View:    models.Viewport{Latitude: 39.4, Longitude: 140.5, Zoom: 5},
		Summary: models.Summary{Targets: 3, Resolved: 2},
	})
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, "HeatmapLayer")
	assert.Contains(t, page, "osm-bright-ja")
	assert.Contains(t, page, `href="data:text/csv;charset=utf-8;base64,`)
	assert.Contains(t, page, `download="output_with_latlng.csv"`)
	assert.Contains(t, page, "2 / 3")
	assert.NotContains(t, page, "位置情報を取得できた会員がいません")
}

func TestRenderer_HeatmapWithoutPoints(t *testing.T) {
	r, err := NewRenderer("https://example.com/style.json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Heatmap(&buf, &models.Heatmap{}))

	assert.Contains(t, buf.String(), "位置情報を取得できた会員がいません")
	assert.NotContains(t, buf.String(), "HeatmapLayer")
}

func TestRenderer_Index(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Index(&buf, models.DefaultFilterColumns()))

	page := buf.String()
	assert.Contains(t, page, `action="/heatmap"`)
	assert.Contains(t, page, "店舗、性別")
}
