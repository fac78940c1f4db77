package cmd

import (
	"fmt"

	"routernav/internal/config"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config file",
	Long:  "Writes a sample routernav.yaml with four pages, a navigation script and one vetoed page.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteConfig(configPath, config.Default()); err != nil {
			return err
		}
		fmt.Printf("✅ Created %s\n", configPath)
		return nil
	},
}
