package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/agent-metrics/internal/core"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the .metricsconfig file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .metricsconfig with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ConfigMgr == nil {
			return errNotInitialized("configuration manager")
		}

		path, err := ConfigMgr.WriteDefault(configForce)
		if errors.Is(err, core.ErrConfigExists) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote default configuration to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration in effect: defaults, overlaid by .metricsconfig,
overlaid by AGENT_METRICS_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return errNotInitialized("configuration")
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(Config); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing .metricsconfig")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
