/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/errandhq/errandsync/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging defaults, the config file,
environment variables, and flags, plus the resolved shared store path.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	out, err := yaml.Marshal(GetConfig())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fmt.Print(string(out))
	fmt.Printf("resolved store path: %s\n", config.GetSharedStorePath())
	fmt.Printf("resolved archive path: %s\n", config.GetArchivePath())
	return nil
}
