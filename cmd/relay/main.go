package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridhall/relay-server/internal/app"
	"github.com/gridhall/relay-server/internal/config"
	"github.com/gridhall/relay-server/internal/directory"
	"github.com/gridhall/relay-server/internal/log"
	"github.com/gridhall/relay-server/internal/store/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "relay",
		Short:        "Grid-space presence relay server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newSeedSpaceCmd(&configPath))
	return root
}

func runServe(configPath string) error {
	bootstrap := log.New("info")

	cfg, path, err := config.Load(bootstrap, configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting relay server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newSeedSpaceCmd inserts a space into the shared directory database for
// local development; in production the administration service owns it.
func newSeedSpaceCmd(configPath *string) *cobra.Command {
	var (
		id     string
		name   string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "seed-space",
		Short: "Insert a space into the directory database",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New("info")

			cfg, _, err := config.Load(logger, *configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open space directory: %w", err)
			}
			defer st.Close()

			space := &directory.Space{ID: id, Name: name, Width: width, Height: height}
			if err := st.AddSpace(cmd.Context(), space); err != nil {
				return err
			}

			logger.Info().Str("space", id).Int("width", width).Int("height", height).Msg("space created")
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "space identifier")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().IntVar(&width, "width", 20, "grid width in cells")
	cmd.Flags().IntVar(&height, "height", 20, "grid height in cells")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
