package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/linkstore/internal/menu"
)

// MenuOptions holds flags for the menu command group.
type MenuOptions struct {
	*RootOptions
	Parent int64
}

// NewMenuCommand creates the menu command group for hierarchical items.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MenuOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Store and materialize hierarchical menu items",
	}

	cmd.AddCommand(newMenuImportCommand(opts))
	cmd.AddCommand(newMenuShowCommand(opts))
	cmd.AddCommand(newMenuDeleteCommand(opts))
	cmd.AddCommand(newMenuClearCommand(opts))
	cmd.AddCommand(newMenuStatsCommand(opts))

	return cmd
}

// withMenu builds the menu service over the configured menu database.
func (o *MenuOptions) withMenu(fn func(svc *menu.Service) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := o.openStore(cfg, cfg.Backend.MenuDB)
	if err != nil {
		return err
	}
	defer closeStore()
	blobs, err := o.openBlobs(cfg)
	if err != nil {
		return err
	}
	return fn(menu.New(store, blobs, slog.Default()))
}

func newMenuImportCommand(opts *MenuOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Validate and store a menu tree from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readMenuFile(args[0])
			if err != nil {
				return err
			}
			if err := menu.ValidateTree(items); err != nil {
				return WrapExitError(ExitCommandError, "menu validation failed", err)
			}
			return opts.withMenu(func(svc *menu.Service) error {
				ids, err := svc.StoreTree(cmd.Context(), items, opts.Parent)
				if err != nil {
					return WrapExitError(ExitFailure, "import failed", err)
				}
				formatter := newFormatter(cmd, opts.RootOptions)
				if formatter.Format == "json" {
					return formatter.Success(map[string]any{"stored": len(ids), "itemIds": ids})
				}
				return formatter.Successf("stored %d item(s)", len(ids))
			})
		},
	}
	cmd.Flags().Int64Var(&opts.Parent, "parent", menu.RootParent, "parent item id to attach the tree under")
	return cmd
}

func newMenuShowCommand(opts *MenuOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Materialize the menu tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMenu(func(svc *menu.Service) error {
				nodes, err := svc.Materialize(cmd.Context(), opts.Parent)
				if err != nil {
					return WrapExitError(ExitFailure, "materialize failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).SuccessIndented(nodes)
			})
		},
	}
	cmd.Flags().Int64Var(&opts.Parent, "parent", menu.RootParent, "item id to materialize from")
	return cmd
}

func newMenuDeleteCommand(opts *MenuOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			return opts.withMenu(func(svc *menu.Service) error {
				if err := svc.DeleteSubtree(cmd.Context(), itemID); err != nil {
					return WrapExitError(ExitFailure, "delete failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).Successf("deleted subtree of item %d", itemID)
			})
		},
	}
}

func newMenuClearCommand(opts *MenuOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every menu link and document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMenu(func(svc *menu.Service) error {
				if err := svc.ClearAll(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "clear failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).Success("cleared")
			})
		},
	}
}

func newMenuStatsCommand(opts *MenuOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show menu link and document counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMenu(func(svc *menu.Service) error {
				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "stats failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).SuccessIndented(stats)
			})
		},
	}
}

// readMenuFile reads a JSON file holding either one item object or an
// array of items.
func readMenuFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read menu file", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var item map[string]any
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid menu JSON in %s", path), err)
	}
	return []map[string]any{item}, nil
}
