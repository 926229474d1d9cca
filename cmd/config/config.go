// Package config implements the configuration subcommands.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/conf"
)

// Command creates the config command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the client configuration file",
	}

	var force bool
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the current configuration to the default config path",
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := conf.GetDefaultConfigPaths()
			if err != nil {
				return err
			}
			configPath := filepath.Join(paths[0], "config.yaml")

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file already exists at %s, use --force to overwrite", configPath)
			}
			if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
				return fmt.Errorf("error creating config directory: %w", err)
			}

			if err := conf.SaveYAMLConfig(configPath, settings); err != nil {
				return err
			}
			fmt.Println("Wrote config file to:", configPath)
			return nil
		},
	}
	generateCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(generateCmd)
	return cmd
}
