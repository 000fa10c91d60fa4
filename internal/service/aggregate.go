package service

import (
	"math"
	"strconv"
	"strings"

	"member-heatmap/internal/models"

	"github.com/umahmood/haversine"
)

const (
	defaultZoom = 12
	minZoom     = 4
	maxZoom     = 15

	// equatorKm is the earth's circumference; at zoom z the world is 256*2^z pixels wide.
	equatorKm      = 40075.016686
	tilePixels     = 256
	viewportPixels = 800
)

// CoerceWeight converts a raw weight to an integer, falling back to the mode's default
// when the value is not a finite number.
func CoerceWeight(raw string, mode models.Mode) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return mode.DefaultWeight()
	}
	return int(math.Round(v))
}

// coerceCoordinate parses a coordinate and rejects non-finite or out-of-range values.
func coerceCoordinate(raw string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, false
	}
	return v, true
}

// Aggregate pairs targets with their resolutions and keeps the records with both
// coordinates. resolutions[i] must belong to targets[i].
func Aggregate(targets []models.Target, resolutions []models.Resolution, mode models.Mode) ([]models.Point, models.Summary) {
	summary := models.Summary{
		Targets:    len(targets),
		Unresolved: make(map[models.UnresolvedReason]int),
	}

	points := make([]models.Point, 0, len(targets))
	for i, t := range targets {
		if i >= len(resolutions) {
			break
		}
		res := resolutions[i]
		lat, latOK := coerceCoordinate(res.Latitude, 90)
		lon, lonOK := coerceCoordinate(res.Longitude, 180)
		if !latOK || !lonOK {
			reason := res.Reason
			if reason == "" {
				reason = models.ReasonBadCoordinates
			}
			summary.Unresolved[reason]++
			continue
		}
		points = append(points, models.Point{
			Latitude:  lat,
			Longitude: lon,
			Weight:    CoerceWeight(t.Weight, mode),
		})
	}
	summary.Resolved = len(points)
	return points, summary
}

// Center returns the arithmetic mean of the coordinates. ok is false for no points.
func Center(points []models.Point) (lat, lon float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	for _, p := range points {
		lat += p.Latitude
		lon += p.Longitude
	}
	n := float64(len(points))
	return lat / n, lon / n, true
}

// Zoom picks the web-mercator zoom at which every point is within an 800 pixel wide view
// around the center, clamped to [4, 15]. A single location yields 12.
func Zoom(points []models.Point, lat, lon float64) float64 {
	center := haversine.Coord{Lat: lat, Lon: lon}
	var farthest float64
	for _, p := range points {
		_, km := haversine.Distance(center, haversine.Coord{Lat: p.Latitude, Lon: p.Longitude})
		if km > farthest {
			farthest = km
		}
	}
	if farthest == 0 {
		return defaultZoom
	}

	visibleAtZero := equatorKm * math.Cos(lat*math.Pi/180) * viewportPixels / tilePixels
	z := math.Floor(math.Log2(visibleAtZero / (2 * farthest)))
	return math.Max(minZoom, math.Min(maxZoom, z))
}

// NewViewport centers the map on the points. ok is false when there are none.
func NewViewport(points []models.Point) (models.Viewport, bool) {
	lat, lon, ok := Center(points)
	if !ok {
		return models.Viewport{}, false
	}
	return models.Viewport{Latitude: lat, Longitude: lon, Zoom: Zoom(points, lat, lon)}, true
}
