package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/linkstore/internal/config"
	"github.com/roach88/linkstore/internal/links"
)

// LinksOptions holds flags for the links command group.
type LinksOptions struct {
	*RootOptions
	Database string
}

// NewLinksCommand creates the links command group for raw link CRUD.
func NewLinksCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LinksOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "links",
		Short: "Create, read, update and delete raw links",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the link database (defaults to the configured menu database)")

	cmd.AddCommand(newLinksCreateCommand(opts))
	cmd.AddCommand(newLinksListCommand(opts))
	cmd.AddCommand(newLinksGetCommand(opts))
	cmd.AddCommand(newLinksUpdateCommand(opts))
	cmd.AddCommand(newLinksDeleteCommand(opts))
	cmd.AddCommand(newLinksClearCommand(opts))

	return cmd
}

// database resolves the link database for this command group.
func (o *LinksOptions) database(cfg config.Config) string {
	if o.Database != "" {
		return o.Database
	}
	return cfg.Backend.MenuDB
}

// withStore opens the configured store and runs fn against it.
func (o *LinksOptions) withStore(fn func(store links.Store) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := o.openStore(cfg, o.database(cfg))
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

func newLinksCreateCommand(opts *LinksOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <source> <target>",
		Short: "Create a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			target, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			return opts.withStore(func(store links.Store) error {
				link, err := store.Create(cmd.Context(), source, target)
				if err != nil {
					return WrapExitError(ExitFailure, "create failed", err)
				}
				return printLink(cmd, opts.RootOptions, link)
			})
		},
	}
}

func newLinksListCommand(opts *LinksOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store links.Store) error {
				all, err := store.ReadAll(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "list failed", err)
				}
				formatter := newFormatter(cmd, opts.RootOptions)
				if formatter.Format == "json" {
					return formatter.Success(all)
				}
				for _, link := range all {
					fmt.Fprintln(formatter.Writer, renderLink(link))
				}
				fmt.Fprintf(formatter.Writer, "%d link(s)\n", len(all))
				return nil
			})
		},
	}
}

func newLinksGetCommand(opts *LinksOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Read one link by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			return opts.withStore(func(store links.Store) error {
				link, err := store.ReadOne(cmd.Context(), id)
				if err != nil {
					return WrapExitError(ExitFailure, "get failed", err)
				}
				if link == nil {
					return NewExitError(ExitFailure, fmt.Sprintf("link %d not found", id))
				}
				return printLink(cmd, opts.RootOptions, *link)
			})
		},
	}
}

func newLinksUpdateCommand(opts *LinksOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <source> <target>",
		Short: "Rewrite a link's endpoints",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			source, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			target, err := parseNumber(args[2])
			if err != nil {
				return err
			}
			return opts.withStore(func(store links.Store) error {
				link, err := store.Update(cmd.Context(), id, source, target)
				if err != nil {
					return WrapExitError(ExitFailure, "update failed", err)
				}
				return printLink(cmd, opts.RootOptions, link)
			})
		},
	}
}

func newLinksDeleteCommand(opts *LinksOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a link by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			return opts.withStore(func(store links.Store) error {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return WrapExitError(ExitFailure, "delete failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).Successf("deleted link %d", id)
			})
		},
	}
}

func newLinksClearCommand(opts *LinksOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every link in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store links.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "clear failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).Success("cleared")
			})
		},
	}
}

// renderLink prints a link in the backend's triple notation.
func renderLink(link links.Link) string {
	return fmt.Sprintf("(%d: %d %d)", link.ID, link.Source, link.Target)
}

func printLink(cmd *cobra.Command, opts *RootOptions, link links.Link) error {
	formatter := newFormatter(cmd, opts)
	if formatter.Format == "json" {
		return formatter.Success(link)
	}
	return formatter.Success(renderLink(link))
}

func parseNumber(arg string) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid number %q", arg), err)
	}
	return n, nil
}
