package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coinage/internal/remote"
)

// withClient opens a REST client for api_url and closes its token mirror.
func (a *app) withClient(cmd *cobra.Command, fn func(*remote.Client) error) error {
	client, m, err := a.openClient(cmd.Context())
	if err != nil {
		return sysError(err)
	}
	defer client.CloseIdleConnections()
	runErr := fn(client)
	if err := m.Close(); err != nil {
		a.log.Warn("error closing mirror", "error", err)
	}
	if runErr != nil {
		return classify(runErr)
	}
	return nil
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the remote API and keep the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(c *remote.Client) error {
				resp, err := c.Login(cmd.Context(), username, password)
				if errors.Is(err, remote.ErrNoToken) {
					return sysError(err)
				}
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", c.BaseURL(), username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the remote API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(c *remote.Client) error {
				user, err := c.Register(cmd.Context(), username, email, password)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), user)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s; run coinage login to start a session\n", username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(c *remote.Client) error {
				wasLoggedIn := c.IsAuthenticated(cmd.Context())
				if err := c.Logout(cmd.Context()); err != nil {
					return sysError(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]bool{"loggedOut": wasLoggedIn})
				}
				if wasLoggedIn {
					fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				}
				return nil
			})
		},
	}
}
