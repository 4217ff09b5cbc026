package switcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/jmylchreest/sinkswitch/internal/model"
	"github.com/jmylchreest/sinkswitch/internal/pulse"
)

// maxEventLineSize bounds a single subscription line.
const maxEventLineSize = 64 * 1024

// Run rebuilds the sink table, subscribes to sink events and handles them
// one at a time until the feed ends or ctx is cancelled.
//
// Role updates received on reloads are applied between events. A nil
// reloads channel disables reloading.
//
// Any error while handling an event stops the loop and is returned, since
// the table can no longer be trusted. Run returns nil when ctx is cancelled
// or the subscription ends cleanly.
func (r *Reconciler) Run(ctx context.Context, reloads <-chan model.Roles) error {
	if err := r.Rescan(ctx); err != nil {
		return err
	}
	r.logger.Info("sink table ready", "sinks", r.table.Snapshot())

	subCtx, cancel := context.WithCancel(ctx)
	stream, err := r.server.Subscribe(subCtx)
	if err != nil {
		cancel()
		return err
	}
	defer func() {
		cancel()
		_ = stream.Wait()
	}()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 4096), maxEventLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-subCtx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	r.logger.Info("listening for sink events")

	for {
		select {
		case <-ctx.Done():
			return nil

		case roles := <-reloads:
			r.SetRoles(roles)

		case line, ok := <-lines:
			if !ok {
				return r.feedClosed(ctx, stream, scanErr)
			}
			if err := r.processLine(ctx, line); err != nil {
				return fmt.Errorf("handle %q: %w", line, err)
			}
		}
	}
}

func (r *Reconciler) processLine(ctx context.Context, line string) error {
	ev, ok := pulse.ParseEvent(line)
	if !ok {
		return nil
	}
	id, err := newID()
	if err != nil {
		return err
	}
	return r.handleEvent(ctx, ev, id, r.logger.With("event_id", id))
}

func (r *Reconciler) feedClosed(ctx context.Context, stream pulse.Stream, scanErr <-chan error) error {
	if ctx.Err() != nil {
		return nil
	}

	var readErr error
	select {
	case readErr = <-scanErr:
	default:
	}
	waitErr := stream.Wait()

	if err := errors.Join(readErr, waitErr); err != nil {
		return fmt.Errorf("event subscription: %w", err)
	}
	r.logger.Info("event subscription ended")
	return nil
}
