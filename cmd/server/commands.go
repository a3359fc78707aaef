package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/projection"
	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/service"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configFile string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "scry-vocab",
		Short:         "Track which vocabulary words you have learned",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default is ./config.yaml or $HOME/.scry-vocab/config.yaml)")

	root.AddCommand(
		newServeCommand(opts),
		newListCommand(opts),
		newLearnCommand(opts),
		newProgressCommand(opts),
		newWatchCommand(opts),
		newMigrateCommand(opts),
	)
	return root
}

// loadConfig reads configuration, honoring --config.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var loadOpts []config.LoadOption
	if o.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(o.configFile))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openApplication loads configuration and builds the application with logs
// on stderr, keeping stdout for command output.
func (o *rootOptions) openApplication(cmd *cobra.Command) (*application, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return newApplication(cmd.Context(), cfg, logger.New(cfg.Server, o.stderr))
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			log.Info("Server configuration loaded",
				slog.Int("port", cfg.Server.Port),
				slog.String("log_level", cfg.Server.LogLevel),
				slog.String("store_backend", cfg.Store.Backend))

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.cleanup()
			return app.run(cmd.Context())
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var learned bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the words still to learn, or the learned words with --learned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.openApplication(cmd)
			if err != nil {
				return err
			}
			defer app.cleanup()

			if learned {
				return writeLearned(opts.stdout, app.cache.Learned(cmd.Context()))
			}
			return writeToLearn(opts.stdout, app.cache.ToLearn(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&learned, "learned", false, "list learned words, most recent first")
	return cmd
}

func newLearnCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "learn <word>",
		Short: "Mark a word as learned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApplication(cmd)
			if err != nil {
				return err
			}
			defer app.cleanup()

			result, err := app.learningService.MarkLearned(cmd.Context(), args[0])
			switch {
			case errors.Is(err, service.ErrWordNotFound):
				return fmt.Errorf("%q is not in the corpus", args[0])
			case err != nil:
				return errors.New(redact.Error(err))
			case !result.Changed:
				_, err = fmt.Fprintf(opts.stdout, "%s was already learned on %s\n",
					result.Entry.Word, formatLearnedAt(*result.Entry))
			default:
				_, err = fmt.Fprintf(opts.stdout, "marked %s as learned\n", result.Entry.Word)
			}
			return err
		},
	}
}

func newProgressCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show how many words have been learned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.openApplication(cmd)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return writeProgress(opts.stdout, app.cache.Progress(cmd.Context()))
		},
	}
}

func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print progress whenever another process changes the stored corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.openApplication(cmd)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.watchChanges(cmd.Context(), opts.stdout)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Run database migrations for the postgres backend",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != config.BackendPostgres {
				return fmt.Errorf("migrations apply to the postgres backend only (store.backend is %q)", cfg.Store.Backend)
			}
			return runMigrations(cmd.Context(), cfg, logger.New(cfg.Server, opts.stderr), command)
		},
	}
}

func formatLearnedAt(e domain.VocabularyEntry) string {
	t, ok := e.LearnedTime()
	if !ok {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func writeToLearn(w io.Writer, entries []domain.VocabularyEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tPRONUNCIATION\tMEANING")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Word, e.Pronunciation, e.Meaning)
	}
	return tw.Flush()
}

func writeLearned(w io.Writer, entries []domain.VocabularyEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tLEARNED AT\tMEANING")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Word, formatLearnedAt(e), e.Meaning)
	}
	return tw.Flush()
}

func writeProgress(w io.Writer, p projection.Progress) error {
	_, err := fmt.Fprintf(w, "learned %d of %d words (%.1f%%), %d to go\n",
		p.Learned, p.Total, p.Percent(), p.Unlearned)
	return err
}
