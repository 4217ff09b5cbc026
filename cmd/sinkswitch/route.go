package main

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/sinkswitch/internal/model"
	"github.com/jmylchreest/sinkswitch/internal/pulse"
	"github.com/jmylchreest/sinkswitch/internal/switcher"
)

var routeOpts struct {
	outputFormat
	dryRun bool
}

var routeCmd = &cobra.Command{
	Use:   "route fallback|preferred|auto",
	Short: "Move all streams to a role's sink",
	Long: `Move every playback stream to the sink bound to a role and make it the
default sink.

  fallback   the built-in card
  preferred  the external card; fails if it is not plugged in
  auto       what sinkswitchd would pick: preferred when present and no
             headphones are connected, fallback otherwise`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(model.RoleFallback), string(model.RolePreferred), "auto"},
	RunE:      runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().BoolVarP(&routeOpts.dryRun, "dry-run", "n", false,
		"Print the commands instead of running them")
	routeCmd.Flags().BoolVar(&routeOpts.json, "json", false, "Output JSON")
	routeCmd.Flags().BoolVar(&routeOpts.yaml, "yaml", false, "Output YAML")
	routeCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func runRoute(cmd *cobra.Command, args []string) error {
	role := model.Role(args[0])
	switch args[0] {
	case string(model.RoleFallback), string(model.RolePreferred), "auto":
	default:
		return fmt.Errorf("unknown role %q (valid: fallback, preferred, auto)", args[0])
	}

	runner := newRunner()
	if routeOpts.dryRun {
		runner = pulse.NewDryRunRunner(runner, logger)
	}

	rec := switcher.New(pulse.NewClient(runner, cfg.Commands), cfg.Roles, logger)
	if err := rec.Rescan(cmd.Context()); err != nil {
		return err
	}

	sw, err := rec.Route(cmd.Context(), role)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if routeOpts.structured() {
		return routeOpts.write(out, sw)
	}
	_, _ = fmt.Fprintf(out, "Routed %s to %s (#%d, %s)\n",
		english.Plural(sw.StreamsMoved, "stream", ""), sw.StableName, sw.Handle, sw.Role)
	return nil
}
