package export

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"member-heatmap/internal/models"
)

// DefaultMapStyle is the MapLibre style used under the heatmap layer.
const DefaultMapStyle = "https://tile.openstreetmap.jp/styles/osm-bright-ja/style.json"

// HeatmapRadiusPixels is the radius of the deck.gl heatmap kernel.
const HeatmapRadiusPixels = 80

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the upload form and the heatmap page.
type Renderer struct {
	templates *template.Template
	mapStyle  string
}

type indexData struct {
	Filters []models.FilterColumn
}

type heatmapData struct {
	Heatmap      *models.Heatmap
	MapStyle     string
	RadiusPixels int
	CSVFileName  string
	CSVDataURI   template.URL
}

// NewRenderer parses the embedded templates. An empty mapStyle selects DefaultMapStyle.
func NewRenderer(mapStyle string) (*Renderer, error) {
	if mapStyle == "" {
		mapStyle = DefaultMapStyle
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("export: failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl, mapStyle: mapStyle}, nil
}

// Index renders the upload form.
func (r *Renderer) Index(w io.Writer, filters []models.FilterColumn) error {
	return r.templates.ExecuteTemplate(w, "index.html", indexData{Filters: filters})
}

// Heatmap renders the map page for a finished run, including a download link carrying
// the CSV output inline.
func (r *Renderer) Heatmap(w io.Writer, h *models.Heatmap) error {
	uri, err := csvDataURI(h.Points)
	if err != nil {
		return err
	}
	return r.templates.ExecuteTemplate(w, "heatmap.html", heatmapData{
		Heatmap:      h,
		MapStyle:     r.mapStyle,
		RadiusPixels: HeatmapRadiusPixels,
		CSVFileName:  FileName,
		CSVDataURI:   uri,
	})
}

func csvDataURI(points []models.Point) (template.URL, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, points); err != nil {
		return "", err
	}
	return template.URL("data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
