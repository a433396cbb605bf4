package cli

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/linkstore/internal/auth"
)

// AuthOptions holds flags for the auth command group.
type AuthOptions struct {
	*RootOptions
	Username  string
	Email     string
	FromFile  string
	UserID    string
	APIKey    string
	Hash      string
	Algorithm string
}

// NewAuthCommand creates the auth command group for users, tokens and
// passwords.
func NewAuthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage users, API tokens and passwords",
	}

	user := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	user.AddCommand(newUserCreateCommand(opts))
	user.AddCommand(newUserListCommand(opts))
	user.AddCommand(newUserDeleteCommand(opts))

	token := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}
	token.AddCommand(newTokenCreateCommand(opts))

	password := &cobra.Command{
		Use:   "password",
		Short: "Manage passwords",
	}
	password.AddCommand(newPasswordSetCommand(opts))

	cmd.AddCommand(user)
	cmd.AddCommand(token)
	cmd.AddCommand(password)
	cmd.AddCommand(newAuthStatsCommand(opts))

	return cmd
}

// withAuth builds the auth service over the configured auth database.
func (o *AuthOptions) withAuth(fn func(svc *auth.Service) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := o.openStore(cfg, cfg.Backend.AuthDB)
	if err != nil {
		return err
	}
	defer closeStore()
	blobs, err := o.openBlobs(cfg)
	if err != nil {
		return err
	}
	return fn(auth.New(store, blobs, slog.Default()))
}

func newUserCreateCommand(opts *AuthOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.userProfile()
			if err != nil {
				return err
			}
			return opts.withAuth(func(svc *auth.Service) error {
				user, err := svc.CreateUser(cmd.Context(), profile)
				if err != nil {
					return WrapExitError(ExitFailure, "create user failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).SuccessIndented(user)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Username, "username", "", "username for the new user")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email for the new user")
	cmd.Flags().StringVar(&opts.FromFile, "from-file", "", "JSON file holding the full profile (flags override its fields)")
	return cmd
}

// userProfile assembles the profile document from the file and flags.
func (o *AuthOptions) userProfile() (map[string]any, error) {
	profile := map[string]any{}
	if o.FromFile != "" {
		data, err := os.ReadFile(o.FromFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read profile file", err)
		}
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid profile JSON", err)
		}
	}
	if o.Username != "" {
		profile["username"] = o.Username
	}
	if o.Email != "" {
		profile["email"] = o.Email
	}
	if len(profile) == 0 {
		return nil, NewExitError(ExitCommandError, "provide --username, --email or --from-file")
	}
	return profile, nil
}

func newUserListCommand(opts *AuthOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAuth(func(svc *auth.Service) error {
				users, err := svc.AllUsers(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "list users failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).SuccessIndented(users)
			})
		},
	}
}

func newUserDeleteCommand(opts *AuthOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user and its tokens and passwords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAuth(func(svc *auth.Service) error {
				if err := svc.DeleteUser(cmd.Context(), args[0]); err != nil {
					return WrapExitError(ExitFailure, "delete user failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).Successf("deleted user %s", args[0])
			})
		},
	}
}

func newTokenCreateCommand(opts *AuthOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := opts.APIKey
			if apiKey == "" {
				apiKey = auth.NewAPIKey()
			}
			return opts.withAuth(func(svc *auth.Service) error {
				token, err := svc.CreateToken(cmd.Context(), opts.UserID, map[string]any{"apiKey": apiKey})
				if err != nil {
					return WrapExitError(ExitFailure, "create token failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).SuccessIndented(token)
			})
		},
	}
	cmd.Flags().StringVar(&opts.UserID, "user", "", "owning user id (required)")
	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", "API key value (generated if omitted)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newPasswordSetCommand(opts *AuthOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a user's password, replacing any previous one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := map[string]any{"hash": opts.Hash}
			if opts.Algorithm != "" {
				doc["algorithm"] = opts.Algorithm
			}
			return opts.withAuth(func(svc *auth.Service) error {
				pwd, err := svc.SetPassword(cmd.Context(), opts.UserID, doc)
				if err != nil {
					return WrapExitError(ExitFailure, "set password failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).SuccessIndented(pwd)
			})
		},
	}
	cmd.Flags().StringVar(&opts.UserID, "user", "", "owning user id (required)")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "password hash (required)")
	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "hash algorithm name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}

func newAuthStatsCommand(opts *AuthOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show auth link and document counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAuth(func(svc *auth.Service) error {
				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "stats failed", err)
				}
				return newFormatter(cmd, opts.RootOptions).SuccessIndented(stats)
			})
		},
	}
}
