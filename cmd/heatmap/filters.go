package main

import (
	"encoding/json"
	"os"

	"member-heatmap/internal/models"
	"member-heatmap/internal/roster"
	"member-heatmap/internal/service"

	"github.com/spf13/cobra"
)

var filtersInput string

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the filter controls available for a roster",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := roster.NewReader(cfg.RosterEncoding).ReadFile(filtersInput)
		if err != nil {
			return err
		}

		controls := service.DescribeFilters(r, models.DefaultFilterColumns())
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(controls)
	},
}

func init() {
	filtersCmd.Flags().StringVar(&filtersInput, "input", "", "roster file (.csv or .xlsx)")
	_ = filtersCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(filtersCmd)
}
