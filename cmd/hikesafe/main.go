package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "hikesafe",
		Short: "⛰️  HikeSafe hiking bookings and tracking",
		Long: `hikesafe: book hiking trips, pay for them, and follow your group's
tracked path, all from the terminal.

Start with 'hikesafe login', then 'hikesafe ui' for the full screen view.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/hikesafe/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("api-url", "", "HikeSafe API base URL")

	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyAPIBaseURL, rootCmd.PersistentFlags().Lookup("api-url"))

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(passwordCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(transactionsCmd())
	rootCmd.AddCommand(bookCmd())
	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(invoiceCmd())
	rootCmd.AddCommand(trackCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(uiCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		common.LogError(err, "Command failed", common.Fields{"command": commandName()})
	}
	fmt.Fprintln(os.Stderr, cli.RenderError(err))
	os.Exit(1)
}

func commandName() string {
	cmd, _, err := rootCmd.Find(os.Args[1:])
	if err != nil || cmd == nil {
		return rootCmd.Name()
	}
	return cmd.CommandPath()
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.Read(viper.GetViper(), cfgFile); err != nil {
		return err
	}
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString(config.KeyLogFormat))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hikesafe %s\n", version)
		},
	}
}
