package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Clark-Hu/genre-dashboard/internal/config"
	httpserver "github.com/Clark-Hu/genre-dashboard/internal/http"
	"github.com/Clark-Hu/genre-dashboard/internal/logger"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "load the dataset and serve the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(v)
		},
	}
	cmd.Flags().String("port", "", "HTTP listen port (overrides PORT)")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func runServe(v *viper.Viper) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Get()

	cfg, err := config.Load(v)
	if err != nil {
		log.Errorw("config error", "error", err)
		return err
	}

	snap, st, err := loadSnapshot(ctx, cfg, log)
	if err != nil {
		log.Errorw("dataset error", "error", err)
		return err
	}
	defer st.Close()

	server, err := httpserver.New(cfg, snap, st, log)
	if err != nil {
		return err
	}

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("server error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
