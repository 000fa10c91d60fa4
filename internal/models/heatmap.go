package models

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a roster row becomes a geocoding target.
type Mode string

const (
	// ModePostalCode aggregates rows per postal code and joins the postal code master.
	ModePostalCode Mode = "postal"
	// ModeAddress concatenates the address columns of every row.
	ModeAddress Mode = "address"
)

// ErrUnknownMode is returned by ParseMode for unrecognised values.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode accepts the API values and the labels used by the upload form.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postal", "postcode", "postal_code", "zip", "郵便番号", "郵便番号から取得":
		return ModePostalCode, nil
	case "address", "addr", "住所", "住所から取得":
		return ModeAddress, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// DefaultWeight is the weight used when a weight value cannot be coerced to a number.
func (m Mode) DefaultWeight() int {
	if m == ModeAddress {
		return 1
	}
	return 0
}

// Target is one geocoding unit produced from the roster. Weight keeps the raw value so the
// aggregator applies the mode's coercion rule.
type Target struct {
	Key     string `json:"key"`
	Address string `json:"address"`
	Weight  string `json:"weight"`
}

// Point is a resolved heatmap record.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    int     `json:"weight"`
}

// Viewport is the initial map camera derived from the points.
type Viewport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
}

// Summary counts what happened to the roster during a run.
type Summary struct {
	Rows       int                      `json:"rows"`
	Filtered   int                      `json:"filtered"`
	Targets    int                      `json:"targets"`
	Resolved   int                      `json:"resolved"`
	Unresolved map[UnresolvedReason]int `json:"unresolved"`
}

// Heatmap is the output of one pipeline run.
type Heatmap struct {
	RunID   string   `json:"run_id"`
	Mode    Mode     `json:"mode"`
	Points  []Point  `json:"points"`
	View    Viewport `json:"view"`
	Summary Summary  `json:"summary"`
}
