package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errNotConnected makes --quiet exit non-zero without printing.
var errNotConnected = errors.New("headphones not connected")

var headphonesOpts struct {
	quiet bool
}

var headphonesCmd = &cobra.Command{
	Use:   "headphones",
	Short: "Report whether headphones are plugged in",
	Long: `Report whether any sink has a headphone port marked available.

With --quiet nothing is printed and the exit status carries the answer:
0 when connected, 1 otherwise. Useful in scripts:

  sinkswitch headphones --quiet && echo plugged`,
	Args: cobra.NoArgs,
	RunE: runHeadphones,
}

func init() {
	rootCmd.AddCommand(headphonesCmd)
	headphonesCmd.Flags().BoolVarP(&headphonesOpts.quiet, "quiet", "q", false,
		"Print nothing; exit 1 when not connected")
}

func runHeadphones(cmd *cobra.Command, args []string) error {
	sinks, err := getClient().HeadphoneSinks(cmd.Context())
	if err != nil {
		return err
	}

	if headphonesOpts.quiet {
		if len(sinks) == 0 {
			return errNotConnected
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if len(sinks) == 0 {
		_, _ = fmt.Fprintln(out, "not connected")
		return nil
	}
	_, _ = fmt.Fprintf(out, "connected (sinks: %v)\n", sinks)
	return nil
}
