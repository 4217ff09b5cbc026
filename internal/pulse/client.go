// Package pulse talks to the sound server through its command line tools.
//
// Every collaborator is reached through a Runner, so the text protocols can
// be exercised against canned output without spawning processes. Parsers
// are pure functions over the raw command output.
package pulse

import (
	"context"
	"fmt"

	"github.com/jmylchreest/sinkswitch/internal/model"
)

// Client issues typed sound server operations over a Runner.
type Client struct {
	runner   Runner
	commands Commands
}

// NewClient creates a Client that runs commands with runner.
func NewClient(runner Runner, commands Commands) *Client {
	return &Client{runner: runner, commands: commands}
}

// ListSinks enumerates the current sinks.
func (c *Client) ListSinks(ctx context.Context) ([]model.Sink, error) {
	out, err := c.runner.Output(ctx, c.commands.ListSinks)
	if err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}
	return ParseSinks(out)
}

// HeadphoneSinks returns the handles of sinks reporting available headphones.
func (c *Client) HeadphoneSinks(ctx context.Context) ([]int, error) {
	out, err := c.runner.Output(ctx, c.commands.ListSinkStatus)
	if err != nil {
		return nil, fmt.Errorf("list sink status: %w", err)
	}
	return ParseHeadphoneSinks(out), nil
}

// HeadphonesConnected reports whether any sink has headphones available.
func (c *Client) HeadphonesConnected(ctx context.Context) (bool, error) {
	sinks, err := c.HeadphoneSinks(ctx)
	if err != nil {
		return false, err
	}
	return len(sinks) > 0, nil
}

// ListStreams returns the handles of all active playback streams.
func (c *Client) ListStreams(ctx context.Context) ([]int, error) {
	out, err := c.runner.Output(ctx, c.commands.ListStreams)
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	return ParseStreams(out), nil
}

// MoveStream moves a playback stream to a sink.
func (c *Client) MoveStream(ctx context.Context, stream, sink int) error {
	return c.runner.Run(ctx, withArgs(c.commands.MoveStream, stream, sink))
}

// SetDefaultSink makes sink the target for new streams.
func (c *Client) SetDefaultSink(ctx context.Context, sink int) error {
	return c.runner.Run(ctx, withArgs(c.commands.SetDefaultSink, sink))
}

// Subscribe starts the event subscription feed.
func (c *Client) Subscribe(ctx context.Context) (Stream, error) {
	s, err := c.runner.Stream(ctx, c.commands.Subscribe)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return s, nil
}
