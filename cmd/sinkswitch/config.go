package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/sinkswitch/internal/config"
)

var configOpts struct {
	defaults bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration sinkswitch and sinkswitchd would use, with
defaults filled in. Use --default to print a starting point for a new
config file:

  sinkswitch config --default > ~/.config/sinkswitch/config.toml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configOpts.defaults, "default", false,
		"Print the built-in defaults instead of the loaded config")
}

func runConfig(cmd *cobra.Command, args []string) error {
	c := cfg
	if configOpts.defaults {
		c = config.DefaultConfig()
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
