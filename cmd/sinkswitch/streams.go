package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var streamsOpts outputFormat

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "List playback stream handles",
	Args:  cobra.NoArgs,
	RunE:  runStreams,
}

func init() {
	rootCmd.AddCommand(streamsCmd)
	streamsCmd.Flags().BoolVar(&streamsOpts.json, "json", false, "Output JSON")
	streamsCmd.Flags().BoolVar(&streamsOpts.yaml, "yaml", false, "Output YAML")
	streamsCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func runStreams(cmd *cobra.Command, args []string) error {
	streams, err := getClient().ListStreams(cmd.Context())
	if err != nil {
		return err
	}
	if streams == nil {
		streams = []int{}
	}

	out := cmd.OutOrStdout()
	if streamsOpts.structured() {
		return streamsOpts.write(out, streams)
	}
	for _, s := range streams {
		_, _ = fmt.Fprintln(out, s)
	}
	return nil
}
