// Package cli provides the command-line interface for realm.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/realm/internal/app"
	"github.com/okian/realm/internal/adapters/storage"
	"github.com/okian/realm/internal/config"
	"github.com/okian/realm/pkg/logger"
)

// Version is set at build time.
var Version = "0.1.0"

// env is the per-invocation state shared by subcommands.
type env struct {
	cfg     *config.Config
	verbose bool
}

// annotationQuietLog marks commands whose output would be garbled by log lines.
const annotationQuietLog = "realm/quiet-log"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "realm",
		Short: "Brand-health scoring across rhythm, emotion, activation, literacy and magnetism",
		Long: `realm scores a brand on five dimensions (R, E, A, L, M) from 0 to 100,
draws them on a radar chart, keeps dated snapshots and ranks opportunity ideas.

Configuration comes from defaults, an optional YAML file named by REALM_CONFIG,
and REALM_* environment variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if err := logger.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(e),
		newTUICmd(e),
		newHistoryCmd(e),
		newRecommendCmd(e),
		newChartCmd(e),
		newIdeaCmd(e),
	)
	return root
}

func (e *env) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	e.cfg = cfg

	// Interactive and one-shot commands keep stdout for their own output.
	var out io.Writer = cmd.ErrOrStderr()
	if cmd.Annotations[annotationQuietLog] == "true" {
		out = io.Discard
	}
	opts := []logger.Option{logger.WithWriter(out)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile))
	}
	if err := logger.Init(opts...); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	level := cfg.LogLevel
	if e.verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// openService opens the configured store and starts a service over it. The
// returned closer stops the service and closes the store.
func (e *env) openService(ctx context.Context) (*service.Service, func(), error) {
	store, err := storage.Open(ctx, e.cfg.StorageDriver, e.cfg.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", e.cfg.StorageDriver, err)
	}

	svc := service.New(
		service.WithLogger(logger.Named("service")),
		service.WithStore(store),
		service.WithHistoryKey(e.cfg.HistoryKey),
		service.WithDateLayout(e.cfg.DateLayout),
		service.WithQueueSize(e.cfg.QueueSize),
		service.WithDedupeSize(e.cfg.DedupeSize),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("start service: %w", err)
	}
	return svc, func() {
		svc.Stop()
		if err := store.Close(); err != nil {
			logger.Get().Warn(ctx, "store close failed", logger.Error(err))
		}
	}, nil
}
