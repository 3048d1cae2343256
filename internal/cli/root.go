package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"runclub/internal/backend"
	"runclub/internal/config"
	"runclub/internal/ledger"
	applog "runclub/internal/log"
	"runclub/internal/pages"
	"runclub/internal/storage"
)

// app carries what the subcommands share. It is filled in by the root
// command's PersistentPreRunE and torn down in PersistentPostRunE.
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *applog.Logger
	backend  *backend.BackendResult
	ledger   *ledger.Ledger
	identity *ledger.Identity

	// store, when set, replaces the configured backend.
	store storage.Store
	// logOutput defaults to stderr so command output stays clean.
	logOutput io.Writer
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	a := &app{}
	err := newRootCommand(a).Execute()
	// PersistentPostRunE is skipped when a command fails.
	if cerr := a.teardown(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cerr)
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "runclub",
		Short: "Run club ledger: log runs, see your impact, serve the site",
		Long: `runclub keeps a newest-first ledger of logged runs, derives the
distance and wealth totals from it and patches them into the tracker,
dashboard and leaderboard pages.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a TOML config file (overrides "+config.FileEnv+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCommand(a),
		newLogCommand(a),
		newHistoryCommand(a),
		newSummaryCommand(a),
		newRenderCommand(a),
		newLoginCommand(a),
		newSignupCommand(a),
		newLogoutCommand(a),
		newListenCommand(a),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	LoadEnvFile()

	cfg, err := LoadAndValidateConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	out := a.logOutput
	if out == nil {
		out = os.Stderr
	}
	a.logger = SetupLogger(level, out)

	if a.store == nil {
		bcfg, err := backend.FromAppConfig(cfg)
		if err != nil {
			return err
		}
		res, err := backend.NewFactory(a.logger).CreateBackend(ctx, bcfg)
		if err != nil {
			return fmt.Errorf("create backend: %w", err)
		}
		a.backend = res
		a.store = res.Store
	}

	opts := []ledger.Option{
		ledger.WithLogger(a.logger),
		ledger.WithDateLayout(cfg.DateLayout),
	}
	if a.backend != nil && a.backend.Notifier != nil {
		opts = append(opts, ledger.WithNotifier(a.backend.Notifier))
	}
	a.ledger = ledger.New(a.store, opts...)
	a.identity = ledger.NewIdentity(a.store, a.logger)
	return nil
}

func (a *app) teardown() error {
	if a.backend == nil || a.backend.Cleanup == nil {
		return nil
	}
	err := a.backend.Cleanup()
	a.backend = nil
	return err
}

func (a *app) pages() *pages.Set {
	return pages.NewSet(
		pages.NewTracker(a.ledger, a.identity),
		pages.NewDashboard(a.ledger, a.identity),
		pages.NewLeaderboard(a.ledger, a.identity),
	)
}
