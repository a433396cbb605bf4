package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/linkstore/internal/blob"
	"github.com/roach88/linkstore/internal/clink"
	"github.com/roach88/linkstore/internal/config"
	"github.com/roach88/linkstore/internal/links"
	"github.com/roach88/linkstore/internal/litestore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"
	SQLite     bool

	// StoreFactory allows overriding backend construction (for testing).
	// If nil, the backend is chosen by the SQLite flag.
	StoreFactory func(dbPath string) (links.Store, func() error, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the linkstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "linkstore",
		Short: "Persist links, menus and auth entities over an associative backend",
		Long: `linkstore stores generic links, hierarchical menus and auth entities
(users, tokens, passwords) as flat (id: source target) triples in an
external link backend, with entity documents kept as JSON files on disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.SQLite, "sqlite", false, "use the embedded SQLite link store instead of the external backend")

	// Add subcommands
	cmd.AddCommand(NewLinksCommand(opts))
	cmd.AddCommand(NewMenuCommand(opts))
	cmd.AddCommand(NewAuthCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))

	return cmd
}

// setupLogging installs the default text logger on stderr.
func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the configuration named by the global flag.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// openStore builds the link store for one database. The caller must invoke
// the returned close function when done.
func (o *RootOptions) openStore(cfg config.Config, dbPath string) (links.Store, func() error, error) {
	if o.StoreFactory != nil {
		return o.StoreFactory(dbPath)
	}
	if o.SQLite {
		st, err := litestore.Open(dbPath)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open link database", err)
		}
		return st, st.Close, nil
	}
	client := clink.NewExec(cfg.Backend.Binary, dbPath, slog.Default())
	return client, func() error { return nil }, nil
}

// openBlobs builds the JSON document store rooted at the configured data dir.
func (o *RootOptions) openBlobs(cfg config.Config) (*blob.Store, error) {
	blobs, err := blob.NewStore(cfg.DataDir, slog.Default())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open data directory", err)
	}
	return blobs, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
