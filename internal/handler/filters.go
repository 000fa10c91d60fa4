package handler

import (
	"net/http"

	"member-heatmap/internal/models"

	"github.com/gin-gonic/gin"
)

// FilterHandler describes the filter controls for an uploaded roster
type FilterHandler struct {
	service HeatmapService
	reader  RosterReader
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(svc HeatmapService, reader RosterReader) *FilterHandler {
	return &FilterHandler{service: svc, reader: reader}
}

// Filters godoc
// @Summary      List filter controls
// @Description  Returns the recognised filter columns present in the roster with their values or numeric range.
// @Tags         heatmap
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "roster (CSV or XLSX)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/filters [post]
func (h *FilterHandler) Filters(c *gin.Context) {
	roster, err := readRoster(c, h.reader)
	if err != nil {
		abortWithError(c, err)
		return
	}

	controls := h.service.DescribeFilters(roster)
	if controls == nil {
		controls = []models.FilterControl{}
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":    roster.Len(),
		"columns": roster.Columns,
		"filters": controls,
	})
}
