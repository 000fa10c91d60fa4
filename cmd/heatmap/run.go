package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"member-heatmap/internal/app"
	"member-heatmap/internal/export"
	"member-heatmap/internal/models"
	"member-heatmap/internal/roster"
	"member-heatmap/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	runInput   string
	runMode    string
	runOutput  string
	runGeoJSON string
	runHTML    string
	runFilters []string
	runRanges  []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline over a roster file",
	Long: `Runs the full pipeline and writes the three-column CSV (緯度, 経度, count).

Examples:
  # Postal code mode, default output file
  heatmap run --input members.csv

  # Address mode, women only, 3 to 10 visits, with a map page
  heatmap run --input members.xlsx --mode address \
    --filter 性別=女性 --range 来店回数=3:10 --html map.html`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode, err := models.ParseMode(runMode)
		if err != nil {
			return err
		}
		selection, err := parseSelection(runFilters, runRanges)
		if err != nil {
			return err
		}

		r, err := roster.NewReader(cfg.RosterEncoding).ReadFile(runInput)
		if err != nil {
			return err
		}

		svc, err := app.NewHeatmapService(ctx, cfg)
		if err != nil {
			return err
		}

		heatmap, err := svc.Generate(ctx, r, service.Request{
			Mode:     mode,
			Filters:  selection,
			Progress: logProgress,
		})
		var missing *service.MissingColumnsError
		if errors.As(err, &missing) {
			return fmt.Errorf("roster is missing columns %s", strings.Join(missing.Columns, ", "))
		}
		if err != nil {
			return err
		}

		if err := writeFile(runOutput, func(w io.Writer) error { return export.WriteCSV(w, heatmap.Points) }); err != nil {
			return err
		}
		if runGeoJSON != "" {
			if err := writeFile(runGeoJSON, func(w io.Writer) error { return export.WriteGeoJSON(w, heatmap.Points) }); err != nil {
				return err
			}
		}
		if runHTML != "" {
			pages, err := export.NewRenderer(cfg.MapStyleURL)
			if err != nil {
				return err
			}
			if err := writeFile(runHTML, func(w io.Writer) error { return pages.Heatmap(w, heatmap) }); err != nil {
				return err
			}
		}

		fmt.Printf("Resolved %d of %d targets, wrote %d points to %s\n",
			heatmap.Summary.Resolved, heatmap.Summary.Targets, len(heatmap.Points), runOutput)
		for reason, n := range heatmap.Summary.Unresolved {
			fmt.Printf("  unresolved (%s): %d\n", reason, n)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "roster file (.csv or .xlsx)")
	runCmd.Flags().StringVar(&runMode, "mode", string(models.ModePostalCode), "postal or address")
	runCmd.Flags().StringVar(&runOutput, "output", export.FileName, "CSV output path")
	runCmd.Flags().StringVar(&runGeoJSON, "geojson", "", "optional GeoJSON output path")
	runCmd.Flags().StringVar(&runHTML, "html", "", "optional heatmap page output path")
	runCmd.Flags().StringArrayVar(&runFilters, "filter", nil, "keep rows whose column has one of the values (column=v1,v2)")
	runCmd.Flags().StringArrayVar(&runRanges, "range", nil, "keep rows whose numeric column is within lo:hi (column=lo:hi)")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}

// parseSelection turns the --filter and --range flags into a selection.
func parseSelection(filters, ranges []string) (models.FilterSelection, error) {
	var sel models.FilterSelection
	for _, f := range filters {
		column, values, ok := strings.Cut(f, "=")
		if !ok || column == "" {
			return sel, fmt.Errorf("invalid --filter %q: want column=v1,v2", f)
		}
		if sel.Values == nil {
			sel.Values = make(map[string][]string)
		}
		list := []string{}
		if values != "" {
			list = strings.Split(values, ",")
		}
		sel.Values[column] = append(sel.Values[column], list...)
	}
	for _, r := range ranges {
		column, bounds, ok := strings.Cut(r, "=")
		if !ok || column == "" {
			return sel, fmt.Errorf("invalid --range %q: want column=lo:hi", r)
		}
		rng, err := models.ParseRange(bounds)
		if err != nil {
			return sel, fmt.Errorf("invalid --range %q: %w", r, err)
		}
		if sel.Ranges == nil {
			sel.Ranges = make(map[string]models.Range)
		}
		sel.Ranges[column] = rng
	}
	return sel, nil
}

func logProgress(done, total int) {
	if done == total || done%50 == 0 {
		log.Info().Int("done", done).Int("total", total).Msg("geocoding")
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
