package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/config"
	"github.com/HikeSafe-Project/mobile/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your hiking history",
	}

	cmd.AddCommand(exportSheetsCmd())
	cmd.AddCommand(exportAuthCmd())

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write your hiking history to a Google spreadsheet",
		Long: `Write the filtered hiking history and its statistics to the History tab
of a Google spreadsheet. The spreadsheet is created on first export unless
sheets.spreadsheet_id is configured.

Authenticate first with 'hikesafe export auth' or configure
sheets.service_account_path.`,
		RunE: runExportSheets,
	}

	addQueryFlags(cmd)

	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets is not configured: %w", err)
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		list, q, err := fetchFiltered(ctx, cmd, a)
		if err != nil {
			return err
		}

		writer, err := sheets.NewWriter(ctx, *sheetsCfg, common.ComponentLogger("sheets"))
		if err != nil {
			return err
		}

		var id string
		if err := cli.Spin(ctx, cmd.ErrOrStderr(), "Exporting to Google Sheets...", func(ctx context.Context) error {
			var err error
			id, err = writer.Write(ctx, sheets.Report{
				Filter:       describeQuery(q),
				Transactions: list,
				Statistics:   aggregate.ComputeStatistics(list),
			})
			return err
		}); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d transactions", len(list))))
		fmt.Fprintln(out, "https://docs.google.com/spreadsheets/d/"+id)
		return nil
	})
}

func exportAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorise Google Sheets access",
		Long: `Authorise HikeSafe to write spreadsheets with your Google account.
A consent URL is printed; once you approve it the refresh token is saved to
sheets.token_file and used by every later export. A saved token that still
works is reused unless --force is given.`,
		RunE: runExportAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "address the local callback server listens on")
	cmd.Flags().Bool("force", false, "ask for consent even when a saved token still works")

	return cmd
}

func runExportAuth(cmd *cobra.Command, _ []string) error {
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: set sheets.client_id and sheets.client_secret or pass --client-id and --client-secret", common.ErrMissingConfig)
	}

	callback, _ := cmd.Flags().GetString("callback")
	force, _ := cmd.Flags().GetBool("force")

	out := cmd.OutOrStdout()
	oauthCfg := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    config.ExpandPath(viper.GetString("sheets.token_file")),
		CallbackAddr: callback,
		Prompt:       out,
	}

	authenticate := sheets.GetOrCreateToken
	if force {
		authenticate = sheets.AuthenticateOAuth2Interactive
	}
	token, err := authenticate(cmd.Context(), oauthCfg)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if token.RefreshToken == "" {
		fmt.Fprintln(out, cli.FormatWarning("Google returned no refresh token; revoke the app's access and try again"))
		return nil
	}

	fmt.Fprintln(out, cli.FormatSuccess("Google Sheets authorised"))
	fmt.Fprintln(out, cli.FormatInfo("Export with: hikesafe export sheets"))
	return nil
}
