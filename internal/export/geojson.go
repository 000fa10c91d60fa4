package export

import (
	"encoding/json"
	"fmt"
	"io"

	"member-heatmap/internal/models"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection converts the points into GeoJSON point features carrying the weight
// as a property. The collection bbox covers every point.
func FeatureCollection(points []models.Point) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(points))}
	if len(points) == 0 {
		return fc
	}

	flat := make([]float64, 0, 2*len(points))
	for _, p := range points {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{p.Longitude, p.Latitude}),
			Properties: map[string]interface{}{"weight": p.Weight},
		})
		flat = append(flat, p.Longitude, p.Latitude)
	}
	fc.BBox = geom.NewMultiPointFlat(geom.XY, flat).Bounds()
	return fc
}

// WriteGeoJSON encodes the points as a FeatureCollection.
func WriteGeoJSON(w io.Writer, points []models.Point) error {
	data, err := json.Marshal(FeatureCollection(points))
	if err != nil {
		return fmt.Errorf("export: failed to encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export: failed to write geojson: %w", err)
	}
	return nil
}
