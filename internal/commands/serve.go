package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/company"
	"github.com/flowcast-dev/flowcast/internal/config"
	"github.com/flowcast-dev/flowcast/internal/ledger"
	"github.com/flowcast-dev/flowcast/internal/logging"
	"github.com/flowcast-dev/flowcast/internal/server"
	"github.com/flowcast-dev/flowcast/internal/store"
)

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the flowcast HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "flowcast.yaml", "path to config file")

	return cmd
}

func runServe(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, err := store.Dial(ctx, cfg.Store.URI)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()
		st = store.NewMongo(client, cfg.Store.Database)
		log.Info().Str("database", cfg.Store.Database).Msg("using mongo store")
	default:
		st = store.NewMemory()
		log.Info().Msg("using in-memory store")
	}

	locks := store.NewLocks()
	companies := company.NewService(st, locks)
	ledg := ledger.NewService(st, locks)
	handlers := server.NewHandlers(companies, ledg, log)

	return server.New(cfg.Server.Addr, handlers, log).Run(ctx)
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}
