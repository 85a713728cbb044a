package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Clark-Hu/genre-dashboard/db"
	"github.com/Clark-Hu/genre-dashboard/internal/config"
	"github.com/Clark-Hu/genre-dashboard/internal/dashboard"
	"github.com/Clark-Hu/genre-dashboard/internal/dataset"
	"github.com/Clark-Hu/genre-dashboard/internal/repository"
	"github.com/Clark-Hu/genre-dashboard/internal/store"
)

// csvSource picks the remote or local CSV source.
func csvSource(cfg config.Config, log *zap.SugaredLogger) (dataset.Source, error) {
	if cfg.UsesRemoteDataset() {
		src, err := dataset.NewHTTPSource(cfg.DatasetURL, cfg.DatasetAPIKey, time.Duration(cfg.DatasetTimeoutSecs)*time.Second, log)
		if err != nil {
			return nil, err
		}
		log.Infow("using remote dataset", "url", cfg.DatasetURL)
		return src, nil
	}
	log.Infow("using local dataset", "path", cfg.DatasetPath)
	return dataset.FileSource{Path: cfg.DatasetPath}, nil
}

// openStore connects to Postgres and applies the embedded migrations.
func openStore(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*store.Store, error) {
	st, err := store.New(ctx, cfg.DBURL, store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 log,
	})
	if err != nil {
		return nil, err
	}
	if err := st.ApplyMigrations(ctx, db.Migrations); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// loadSnapshot reads the configured dataset once and aggregates it. The returned store is
// nil unless DATA_SOURCE is postgres; callers close it.
func loadSnapshot(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*dashboard.Snapshot, *store.Store, error) {
	var (
		src dataset.Source
		st  *store.Store
		err error
	)
	switch cfg.DataSource {
	case config.SourcePostgres:
		st, err = openStore(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		src = dataset.SourceFunc(repository.New(st).Movies.ListAll)
	default:
		src, err = csvSource(cfg, log)
		if err != nil {
			return nil, nil, err
		}
	}

	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DatasetTimeoutSecs)*time.Second)
	defer cancel()

	movies, err := src.Load(loadCtx)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}

	snap := dashboard.NewSnapshot(movies)
	log.Infow("dataset loaded",
		"source", cfg.DataSource,
		"movies", humanize.Comma(int64(snap.Len())),
		"genres", snap.Vocabulary().Len(),
		"years", len(snap.Years()),
	)
	log.Debugw("summary rows without defined averages", "dropped", snap.Dropped())
	return snap, st, nil
}
