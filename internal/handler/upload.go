package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"member-heatmap/internal/models"
	"member-heatmap/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	fileField   = "file"
	modeField   = "mode"
	filterField = "filter."
	rangeField  = "range."
)

// RosterReader decodes an uploaded roster file.
type RosterReader interface {
	Read(name string, src io.Reader) (*models.Roster, error)
}

// badRequestError marks client input problems found before the pipeline runs.
type badRequestError struct {
	msg string
	err error
}

func (e *badRequestError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *badRequestError) Unwrap() error { return e.err }

func badRequest(msg string, err error) error {
	return &badRequestError{msg: msg, err: err}
}

// readRoster decodes the multipart "file" field.
func readRoster(c *gin.Context, reader RosterReader) (*models.Roster, error) {
	fh, err := c.FormFile(fileField)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, fmt.Errorf("handler: upload exceeds %d bytes: %w", tooLarge.Limit, err)
	}
	if err != nil {
		return nil, badRequest("missing required form file 'file'", nil)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("handler: failed to open upload: %w", err)
	}
	defer f.Close()

	r, err := reader.Read(fh.Filename, f)
	if err != nil {
		return nil, badRequest("invalid roster file", err)
	}
	return r, nil
}

// parseRequest reads the mode and the filter selection from the submitted form. Filter
// values are sent as repeated "filter.<column>" fields and ranges as "range.<column>=lo:hi".
func parseRequest(c *gin.Context) (service.Request, error) {
	raw := c.PostForm(modeField)
	mode := models.ModePostalCode
	if raw != "" {
		m, err := models.ParseMode(raw)
		if err != nil {
			return service.Request{}, badRequest("invalid mode", err)
		}
		mode = m
	}

	req := service.Request{Mode: mode}
	form := c.Request.MultipartForm
	if form == nil {
		return req, nil
	}
	for key, values := range form.Value {
		switch {
		case strings.HasPrefix(key, filterField):
			if req.Filters.Values == nil {
				req.Filters.Values = make(map[string][]string)
			}
			column := strings.TrimPrefix(key, filterField)
			req.Filters.Values[column] = append(req.Filters.Values[column], values...)
		case strings.HasPrefix(key, rangeField):
			if len(values) == 0 || values[0] == "" {
				continue
			}
			rng, err := models.ParseRange(values[0])
			if err != nil {
				return service.Request{}, badRequest("invalid range for "+strings.TrimPrefix(key, rangeField), err)
			}
			if req.Filters.Ranges == nil {
				req.Filters.Ranges = make(map[string]models.Range)
			}
			req.Filters.Ranges[strings.TrimPrefix(key, rangeField)] = rng
		}
	}
	return req, nil
}

// errorResponse maps pipeline errors to a status code and JSON body.
func errorResponse(err error) (int, gin.H) {
	var missing *service.MissingColumnsError
	var bad *badRequestError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()}
	case errors.As(err, &bad):
		return http.StatusBadRequest, gin.H{"error": bad.Error()}
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity, gin.H{"error": missing.Error(), "missing_columns": missing.Columns}
	case errors.Is(err, service.ErrNoReferenceTable):
		return http.StatusServiceUnavailable, gin.H{"error": service.ErrNoReferenceTable.Error()}
	case errors.Is(err, models.ErrUnknownMode):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	}
	log.Error().Err(err).Msg("heatmap request failed")
	return http.StatusInternalServerError, gin.H{"error": "internal server error"}
}

func abortWithError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	c.AbortWithStatusJSON(status, body)
}

// LimitBody caps request bodies at n bytes. Zero or less disables the limit.
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
