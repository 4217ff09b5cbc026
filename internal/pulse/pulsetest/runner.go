// Package pulsetest provides a scripted pulse.Runner for tests.
package pulsetest

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/jmylchreest/sinkswitch/internal/pulse"
)

// Runner is a pulse.Runner that returns canned output keyed by the
// space-joined argv and records every call.
type Runner struct {
	mu sync.Mutex

	outputs    map[string]string
	outputErrs map[string]error
	runErrs    map[string]error

	// StreamReader is returned by Stream. Defaults to an empty reader.
	StreamReader io.Reader
	// StreamErr is returned by Stream instead of a stream when set.
	StreamErr error
	// WaitErr is returned by the stream's Wait.
	WaitErr error

	queries []string
	runs    []string
	streams []string
}

// NewRunner creates an empty Runner.
func NewRunner() *Runner {
	return &Runner{
		outputs:    make(map[string]string),
		outputErrs: make(map[string]error),
		runErrs:    make(map[string]error),
	}
}

// SetOutput sets the output returned for argv.
func (r *Runner) SetOutput(argv []string, output string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[key(argv)] = output
}

// SetOutputError makes Output fail for argv.
func (r *Runner) SetOutputError(argv []string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputErrs[key(argv)] = err
}

// SetRunError makes Run fail for argv.
func (r *Runner) SetRunError(argv []string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runErrs[key(argv)] = err
}

// Output returns the canned output for argv, or nothing.
func (r *Runner) Output(_ context.Context, argv []string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(argv)
	r.queries = append(r.queries, k)
	if err := r.outputErrs[k]; err != nil {
		return nil, err
	}
	return []byte(r.outputs[k]), nil
}

// Run records argv.
func (r *Runner) Run(_ context.Context, argv []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(argv)
	r.runs = append(r.runs, k)
	return r.runErrs[k]
}

// Stream returns StreamReader wrapped as a pulse.Stream.
func (r *Runner) Stream(_ context.Context, argv []string) (pulse.Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams = append(r.streams, key(argv))
	if r.StreamErr != nil {
		return nil, r.StreamErr
	}
	reader := r.StreamReader
	if reader == nil {
		reader = strings.NewReader("")
	}
	return &stream{Reader: reader, waitErr: r.WaitErr}, nil
}

// Queries returns the argv of every Output call, space-joined.
func (r *Runner) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

// QueryCount returns how many times argv was queried.
func (r *Runner) QueryCount(argv []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(argv)
	n := 0
	for _, q := range r.queries {
		if q == k {
			n++
		}
	}
	return n
}

// Runs returns the argv of every Run call, space-joined.
func (r *Runner) Runs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.runs...)
}

// Streams returns the argv of every Stream call, space-joined.
func (r *Runner) Streams() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.streams...)
}

// Reset forgets recorded calls but keeps canned output.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = nil
	r.runs = nil
	r.streams = nil
}

type stream struct {
	io.Reader
	waitErr error
}

func (s *stream) Wait() error {
	return s.waitErr
}

func key(argv []string) string {
	return strings.Join(argv, " ")
}
