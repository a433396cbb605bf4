package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/linkstore/internal/auth"
	"github.com/roach88/linkstore/internal/menu"
)

// CombinedReconcileReport pairs the menu and auth reconciliation results.
type CombinedReconcileReport struct {
	Menu menu.ReconcileReport `json:"menu"`
	Auth auth.ReconcileReport `json:"auth"`
}

// NewReconcileCommand creates the reconcile command. It removes links
// without a backing document and documents without a backing link, for
// both substrates.
func NewReconcileCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Remove dangling links and orphan documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var combined CombinedReconcileReport
			err := withServices(opts, func(menuSvc *menu.Service, authSvc *auth.Service) error {
				menuReport, err := menuSvc.Reconcile(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "menu reconcile failed", err)
				}
				authReport, err := authSvc.Reconcile(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "auth reconcile failed", err)
				}
				combined = CombinedReconcileReport{Menu: menuReport, Auth: authReport}
				return nil
			})
			if err != nil {
				return err
			}
			return newFormatter(cmd, opts).SuccessIndented(combined)
		},
	}
}
