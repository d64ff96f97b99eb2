package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/forms"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to HikeSafe",
		Long: `Sign in with your email and password. The session token is stored
locally and used by every other command until you log out.`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "account email (prompted when omitted)")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	prompter := cli.NewPrompter(nil, cmd.OutOrStdout())

	return withApp(cmd, func(ctx context.Context, a *app) error {
		var form forms.LoginForm
		var err error

		if email, _ := cmd.Flags().GetString("email"); email != "" {
			form.Email = email
			if form.Password, err = prompter.AskSecret(ctx, "Password"); err != nil {
				return err
			}
		} else if form, err = prompter.Credentials(ctx); err != nil {
			return err
		}

		if err := prompter.Spin(ctx, "Signing in...", func(ctx context.Context) error {
			return a.session.Login(ctx, form)
		}); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged in as "+form.Email))
		return nil
	})
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.session.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged out"))
				return nil
			})
		},
	}
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a HikeSafe account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompter := cli.NewPrompter(nil, cmd.OutOrStdout())

			return withApp(cmd, func(ctx context.Context, a *app) error {
				form, err := prompter.Registration(ctx)
				if err != nil {
					return err
				}

				if err := prompter.Spin(ctx, "Creating account...", func(ctx context.Context) error {
					return a.session.Register(ctx, form)
				}); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatSuccess("Account created"))
				fmt.Fprintln(out, cli.FormatInfo("Sign in with: hikesafe login --email "+form.Email))
				return nil
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				ok, err := a.session.Authenticated(ctx)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Not logged in"))
					return nil
				}

				profile, err := a.client.Me(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", cli.BoldStyle.Render(profile.FullName), profile.Email)
				return nil
			})
		},
	}
}

func passwordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompter := cli.NewPrompter(nil, cmd.OutOrStdout())

			return withApp(cmd, func(ctx context.Context, a *app) error {
				form, err := prompter.PasswordChange(ctx)
				if err != nil {
					return err
				}
				if err := a.session.ChangePassword(ctx, form); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Password changed"))
				return nil
			})
		},
	}
}
