package handler

import (
	"context"
	"net/http"

	"member-heatmap/internal/export"
	"member-heatmap/internal/models"
	"member-heatmap/internal/service"

	"github.com/gin-gonic/gin"
)

// HeatmapService runs the pipeline for an uploaded roster.
type HeatmapService interface {
	DescribeFilters(*models.Roster) []models.FilterControl
	Generate(context.Context, *models.Roster, service.Request) (*models.Heatmap, error)
}

// HeatmapHandler serves the heatmap API
type HeatmapHandler struct {
	service HeatmapService
	reader  RosterReader
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(svc HeatmapService, reader RosterReader) *HeatmapHandler {
	return &HeatmapHandler{service: svc, reader: reader}
}

// run decodes the upload and executes the pipeline.
func (h *HeatmapHandler) run(c *gin.Context) (*models.Heatmap, error) {
	roster, err := readRoster(c, h.reader)
	if err != nil {
		return nil, err
	}
	req, err := parseRequest(c)
	if err != nil {
		return nil, err
	}
	return h.service.Generate(c.Request.Context(), roster, req)
}

func (h *HeatmapHandler) generate(c *gin.Context) (*models.Heatmap, bool) {
	heatmap, err := h.run(c)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return heatmap, true
}

// Heatmap godoc
// @Summary      Generate heatmap points
// @Description  Geocodes an uploaded roster and returns the weighted points, map view and run summary.
// @Tags         heatmap
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "roster (CSV or XLSX)"
// @Param        mode  formData  string  false  "postal or address"  default(postal)
// @Success      200  {object}  models.Heatmap
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/heatmap [post]
func (h *HeatmapHandler) Heatmap(c *gin.Context) {
	heatmap, ok := h.generate(c)
	if !ok {
		return
	}
	if heatmap.Points == nil {
		heatmap.Points = []models.Point{}
	}
	c.JSON(http.StatusOK, heatmap)
}

// CSV godoc
// @Summary      Download heatmap points as CSV
// @Tags         heatmap
// @Accept       multipart/form-data
// @Produce      text/csv
// @Param        file  formData  file    true   "roster (CSV or XLSX)"
// @Param        mode  formData  string  false  "postal or address"  default(postal)
// @Success      200  {file}  file
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/heatmap/csv [post]
func (h *HeatmapHandler) CSV(c *gin.Context) {
	heatmap, ok := h.generate(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Header("X-Run-Id", heatmap.RunID)
	c.Status(http.StatusOK)
	c.Writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := export.WriteCSV(c.Writer, heatmap.Points); err != nil {
		_ = c.Error(err)
	}
}

// GeoJSON godoc
// @Summary      Download heatmap points as GeoJSON
// @Tags         heatmap
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "roster (CSV or XLSX)"
// @Param        mode  formData  string  false  "postal or address"  default(postal)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/heatmap/geojson [post]
func (h *HeatmapHandler) GeoJSON(c *gin.Context) {
	heatmap, ok := h.generate(c)
	if !ok {
		return
	}
	c.Header("X-Run-Id", heatmap.RunID)
	c.Status(http.StatusOK)
	c.Writer.Header().Set("Content-Type", "application/geo+json")
	if err := export.WriteGeoJSON(c.Writer, heatmap.Points); err != nil {
		_ = c.Error(err)
	}
}
