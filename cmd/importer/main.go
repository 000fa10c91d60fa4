package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"member-heatmap/internal/config"
	"member-heatmap/internal/logger"
	"member-heatmap/internal/models"
	"member-heatmap/internal/postcode"
	"member-heatmap/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	importFile      string
	importEncoding  string
	importConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Load the postal code master into PostgreSQL",
	Long: `Parses a KEN_ALL.csv postal code master and replaces the contents of the
postal_codes table. The API reads the table when POSTCODE_SOURCE=postgres.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.LoadConfig(importConfigDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.Setup(cfg.LogLevel, cfg.LogFormat)

		encoding := importEncoding
		if encoding == "" {
			encoding = cfg.PostcodeEncoding
		}

		conn, err := pgx.Connect(ctx, cfg.DBSource)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer conn.Close(context.Background())

		n, err := importPostalCodes(ctx, repository.NewRepository(conn), importFile, encoding)
		if err != nil {
			return err
		}
		fmt.Printf("Successfully imported %d records\n", n)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&importFile, "file", "", "path to KEN_ALL.csv")
	rootCmd.Flags().StringVar(&importEncoding, "encoding", "", "file encoding (defaults to POSTCODE_ENCODING)")
	rootCmd.Flags().StringVar(&importConfigDir, "config", "./configs", "directory containing app.env")
	_ = rootCmd.MarkFlagRequired("file")
}

// store is the part of the repository the import needs.
type store interface {
	EnsureSchema(ctx context.Context) error
	ReplacePostalCodes(ctx context.Context, codes []models.PostalCode) (int64, error)
	CountPostalCodes(ctx context.Context) (int64, error)
}

func importPostalCodes(ctx context.Context, repo store, path, encoding string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	codes, err := postcode.Parse(f, encoding)
	if err != nil {
		return 0, fmt.Errorf("parse postal codes: %w", err)
	}
	log.Info().Int("records", len(codes)).Str("file", path).Msg("parsed postal code master")

	if err := repo.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	n, err := repo.ReplacePostalCodes(ctx, codes)
	if err != nil {
		return 0, err
	}

	count, err := repo.CountPostalCodes(ctx)
	if err != nil {
		return 0, err
	}
	if count != int64(len(codes)) {
		return 0, fmt.Errorf("record count mismatch: expected %d, got %d", len(codes), count)
	}
	return n, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
