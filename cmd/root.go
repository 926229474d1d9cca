package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AyeshaZahid477412/leadgen-admin/cmd/catalog"
	"github.com/AyeshaZahid477412/leadgen-admin/cmd/compose"
	configcmd "github.com/AyeshaZahid477412/leadgen-admin/cmd/config"
	"github.com/AyeshaZahid477412/leadgen-admin/cmd/mappings"
	"github.com/AyeshaZahid477412/leadgen-admin/cmd/preview"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/conf"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leadgen-admin",
		Short: "Administrative CLI for scraping extraction rules",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	// Add sub-commands to the root command.
	subcommands := []*cobra.Command{
		mappings.Command(settings),
		compose.Command(settings),
		preview.Command(settings),
		catalog.Command(settings),
		configcmd.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}

		// Sync the settings struct with viper's values so command-line
		// arguments take precedence over the config file.
		settings.Debug = viper.GetBool("debug")
		settings.Backend.BaseURL = viper.GetString("backend.baseurl")

		if settings.Debug {
			logging.SetLevel(slog.LevelDebug)
		}
		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Backend.BaseURL, "base-url", viper.GetString("backend.baseurl"), "Scraping backend base URL")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("backend.baseurl", rootCmd.PersistentFlags().Lookup("base-url")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
