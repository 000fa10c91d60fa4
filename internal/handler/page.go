package handler

import (
	"bytes"
	"io"
	"net/http"

	"member-heatmap/internal/models"

	"github.com/gin-gonic/gin"
)

// PageRenderer renders the HTML pages.
type PageRenderer interface {
	Index(w io.Writer, filters []models.FilterColumn) error
	Heatmap(w io.Writer, h *models.Heatmap) error
}

// PageHandler serves the browser flow: upload form, then the rendered map.
type PageHandler struct {
	api     *HeatmapHandler
	pages   PageRenderer
	filters []models.FilterColumn
}

// NewPageHandler creates a new page handler
func NewPageHandler(api *HeatmapHandler, pages PageRenderer, filters []models.FilterColumn) *PageHandler {
	return &PageHandler{api: api, pages: pages, filters: filters}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.pages.Index(&buf, h.filters); err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Heatmap handles POST /heatmap. Errors are reported as plain text since the caller is a
// browser form submission.
func (h *PageHandler) Heatmap(c *gin.Context) {
	heatmap, err := h.api.run(c)
	if err != nil {
		status, body := errorResponse(err)
		c.String(status, "%v", body["error"])
		return
	}

	var buf bytes.Buffer
	if err := h.pages.Heatmap(&buf, heatmap); err != nil {
		status, body := errorResponse(err)
		c.String(status, "%v", body["error"])
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
