package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the display name derived from an email address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, err := a.identity.Login(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Welcome, "+valueStyle.Render(name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address; the part before @ becomes the name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignupCommand(a *app) *cobra.Command {
	var (
		name   string
		pledge bool
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Join the club and store your display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.identity.Signup(cmd.Context(), name, pledge); err != nil {
				return err
			}
			n, _ := a.identity.Name(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Welcome, "+valueStyle.Render(n))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name shown in the welcome message")
	cmd.Flags().BoolVar(&pledge, "agree-pledge", false, "accept the run club pledge")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored display name; the run history is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.identity.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Logged out."))
			return nil
		},
	}
}
