package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sinkswitch/internal/pulse"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print sink events as the daemon sees them",
	Long: `Subscribe to the sound server and print each sink event as it arrives.
Events for other object kinds are skipped. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream, err := getClient().Subscribe(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		ev, ok := pulse.ParseEvent(scanner.Text())
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t#%d\n", ev.Type, ev.Sink)
	}
	scanErr := scanner.Err()
	waitErr := stream.Wait()

	if ctx.Err() != nil {
		return nil
	}
	if scanErr != nil {
		return fmt.Errorf("read events: %w", scanErr)
	}
	return waitErr
}
