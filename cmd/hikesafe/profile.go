package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/forms"
	"github.com/HikeSafe-Project/mobile/internal/session"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileUpdateCmd())
	cmd.AddCommand(profileImageCmd())

	return cmd
}

func profileShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show your profile and hiking statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			return withApp(cmd, func(ctx context.Context, a *app) error {
				var dash session.Dashboard
				if err := cli.Spin(ctx, cmd.ErrOrStderr(), "Loading profile...", func(ctx context.Context) error {
					var err error
					dash, err = a.session.LoadDashboard(ctx)
					return err
				}); err != nil {
					return err
				}

				if asJSON {
					return printJSON(cmd.OutOrStdout(), struct {
						Profile    any `json:"profile"`
						Statistics any `json:"statistics"`
					}{dash.Profile, dash.Statistics})
				}
				return renderDashboard(cmd, dash)
			})
		},
	}

	cmd.Flags().Bool("json", false, "print JSON")

	return cmd
}

func renderDashboard(cmd *cobra.Command, dash session.Dashboard) error {
	out := cmd.OutOrStdout()
	p := dash.Profile

	fmt.Fprintln(out, cli.FormatTitle(p.FullName))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Birth date", p.BirthDate},
		{"Gender", p.Gender},
		{"NIK", p.NIK},
		{"Address", p.Address},
	}
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", r[0], value)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	fmt.Fprintln(out)
	if dash.StatsErr != nil {
		fmt.Fprintln(out, cli.FormatWarning("Statistics unavailable: "+cli.RenderError(dash.StatsErr)))
		return nil
	}
	s := dash.Statistics
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d hikes, %d days, %.1f hours on the trail", s.TotalHikes, s.TotalDays, s.TotalHours)))
	return nil
}

func profileUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Long: `Update one or more profile fields. Fields left out keep their
current value; the full name is always sent and defaults to the current one.`,
		RunE: runProfileUpdate,
	}

	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("email", "", "email")
	cmd.Flags().String("birth-date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().String("nik", "", "16 digit national identity number")
	cmd.Flags().String("gender", "", "MALE or FEMALE")
	cmd.Flags().String("address", "", "address")
	cmd.Flags().String("phone", "", "phone number")

	return cmd
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	flag := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	form := forms.ProfileForm{
		FullName:  flag("name"),
		Email:     flag("email"),
		BirthDate: flag("birth-date"),
		NIK:       flag("nik"),
		Gender:    flag("gender"),
		Address:   flag("address"),
		Phone:     flag("phone"),
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		if form.FullName == "" {
			current, err := a.client.Me(ctx)
			if err != nil {
				return err
			}
			form.FullName = current.FullName
		}

		if err := a.session.UpdateProfile(ctx, form); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Profile updated"))
		return nil
	})
}

func profileImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <file>",
		Short: "Upload a new profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer func() { _ = f.Close() }()

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.client.UpdateProfileImage(ctx, filepath.Base(args[0]), f); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Profile picture updated"))
				return nil
			})
		},
	}
}
