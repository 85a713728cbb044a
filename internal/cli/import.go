package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Clark-Hu/genre-dashboard/internal/config"
	"github.com/Clark-Hu/genre-dashboard/internal/dataset"
	"github.com/Clark-Hu/genre-dashboard/internal/logger"
	"github.com/Clark-Hu/genre-dashboard/internal/repository"
)

// errNoDatabase is returned by import when DB_URL is unset.
var errNoDatabase = errors.New("DB_URL is required for import")

func newImportCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "import [csv-file]",
		Short: "replace the Postgres movies table with a CSV dataset",
		Long: `Decodes the CSV named on the command line, or the configured DATASET_URL / DATASET_PATH,
and replaces the content of the movies table in one transaction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			n, err := runImport(cmd.Context(), cfg, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s movies\n", humanize.Comma(n))
			return nil
		},
	}
}

func runImport(ctx context.Context, cfg config.Config, path string) (int64, error) {
	if cfg.DBURL == "" {
		return 0, errNoDatabase
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log := logger.Get()

	var src dataset.Source = dataset.FileSource{Path: path}
	if path == "" {
		var err error
		if src, err = csvSource(cfg, log); err != nil {
			return 0, err
		}
	}

	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DatasetTimeoutSecs)*time.Second)
	defer cancel()
	movies, err := src.Load(loadCtx)
	if err != nil {
		return 0, fmt.Errorf("load dataset: %w", err)
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	movieRepo := repository.New(st).Movies
	n, err := movieRepo.Replace(ctx, movies)
	if err != nil {
		return 0, err
	}
	stored, err := movieRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count imported movies: %w", err)
	}
	if stored != n {
		return 0, fmt.Errorf("import wrote %d movies but the table holds %d", n, stored)
	}
	log.Infow("dataset imported", "movies", humanize.Comma(stored))
	return stored, nil
}
