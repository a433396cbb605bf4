package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/linkstore/internal/auth"
	"github.com/roach88/linkstore/internal/menu"
)

// CombinedStats pairs the menu and auth summaries.
type CombinedStats struct {
	Menu menu.Stats `json:"menu"`
	Auth auth.Stats `json:"auth"`
}

// NewStatsCommand creates the top-level stats command covering both
// substrates.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show link and document counts for menus and auth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var combined CombinedStats
			err := withServices(opts, func(menuSvc *menu.Service, authSvc *auth.Service) error {
				menuStats, err := menuSvc.Stats(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "menu stats failed", err)
				}
				authStats, err := authSvc.Stats(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "auth stats failed", err)
				}
				combined = CombinedStats{Menu: menuStats, Auth: authStats}
				return nil
			})
			if err != nil {
				return err
			}
			return newFormatter(cmd, opts).SuccessIndented(combined)
		},
	}
}

// withServices opens both substrates and runs fn against them.
func withServices(opts *RootOptions, fn func(menuSvc *menu.Service, authSvc *auth.Service) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	menuStore, closeMenu, err := opts.openStore(cfg, cfg.Backend.MenuDB)
	if err != nil {
		return err
	}
	defer closeMenu()
	authStore, closeAuth, err := opts.openStore(cfg, cfg.Backend.AuthDB)
	if err != nil {
		return err
	}
	defer closeAuth()
	blobs, err := opts.openBlobs(cfg)
	if err != nil {
		return err
	}
	logger := slog.Default()
	return fn(menu.New(menuStore, blobs, logger), auth.New(authStore, blobs, logger))
}
