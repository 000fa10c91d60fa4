// Package app wires configuration into the heatmap pipeline for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"member-heatmap/internal/config"
	"member-heatmap/internal/geocoder"
	"member-heatmap/internal/postcode"
	"member-heatmap/internal/repository"
	"member-heatmap/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Postal code master sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceNone     = "none"
)

// ErrUnknownPostcodeSource is returned for unsupported POSTCODE_SOURCE values.
var ErrUnknownPostcodeSource = errors.New("app: unknown postcode source")

// LoadPostcodes reads the postal code master from the configured source. It returns a nil
// table for SourceNone.
func LoadPostcodes(ctx context.Context, cfg config.Config) (*postcode.Table, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.PostcodeSource)) {
	case SourceFile, "":
		return postcode.LoadFile(cfg.PostcodePath, cfg.PostcodeEncoding)
	case SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, fmt.Errorf("app: cannot connect to db: %w", err)
		}
		defer pool.Close()
		return postcode.LoadFrom(ctx, repository.NewRepository(pool))
	case SourceNone:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPostcodeSource, cfg.PostcodeSource)
}

// NewGeocoder builds the geocoding client from the GEOCODER_* settings.
func NewGeocoder(cfg config.Config) (*geocoder.Client, error) {
	encoding, err := geocoder.ParseAddressEncoding(cfg.GeocoderAddressEncoding)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return geocoder.NewClient(
		geocoder.WithEndpoint(cfg.GeocoderEndpoint),
		geocoder.WithTimeout(cfg.GeocoderTimeout),
		geocoder.WithAddressEncoding(encoding),
		geocoder.WithRateLimit(cfg.GeocoderRateLimit),
	), nil
}

// NewHeatmapService loads the reference data and assembles the pipeline. A postal code
// master that cannot be loaded is logged and leaves only address mode usable.
func NewHeatmapService(ctx context.Context, cfg config.Config) (*service.HeatmapService, error) {
	client, err := NewGeocoder(cfg)
	if err != nil {
		return nil, err
	}

	var lookup service.PostalLookup
	table, err := LoadPostcodes(ctx, cfg)
	switch {
	case errors.Is(err, ErrUnknownPostcodeSource):
		return nil, err
	case err != nil:
		log.Warn().Err(err).Str("source", cfg.PostcodeSource).Msg("postal code master not loaded; postal code mode disabled")
	case table != nil:
		log.Info().Int("codes", table.Len()).Str("source", cfg.PostcodeSource).Msg("postal code master loaded")
		lookup = table
	}

	return service.NewHeatmapService(
		service.NewKeyBuilder(lookup, cfg.Columns()),
		client,
		service.WithConcurrency(cfg.GeocoderConcurrency),
	), nil
}
