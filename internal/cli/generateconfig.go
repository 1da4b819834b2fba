package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysmon-tools/sysmon/internal/config"
)

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write a sample configuration file",
	Long:  `Write the default configuration as YAML to the path given by --config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteConfig(config.DefaultConfig(), configFlag); err != nil {
			return err
		}
		fmt.Printf("Generated config file at %s\n", configFlag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateConfigCmd)
}
