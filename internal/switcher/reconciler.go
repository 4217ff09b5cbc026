package switcher

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/sinkswitch/internal/model"
	"github.com/jmylchreest/sinkswitch/internal/pulse"
)

// SoundServer is the set of sound server operations the reconciler needs.
// *pulse.Client implements it.
type SoundServer interface {
	ListSinks(ctx context.Context) ([]model.Sink, error)
	HeadphoneSinks(ctx context.Context) ([]int, error)
	ListStreams(ctx context.Context) ([]int, error)
	MoveStream(ctx context.Context, stream, sink int) error
	SetDefaultSink(ctx context.Context, sink int) error
	Subscribe(ctx context.Context) (pulse.Stream, error)
}

// SwitchHandler is called after streams were redirected.
type SwitchHandler func(sw model.Switch)

// Reconciler owns the sink table and applies routing decisions.
// It is not safe for concurrent use; Run serializes all access.
type Reconciler struct {
	server   SoundServer
	table    *model.SinkTable
	roles    model.Roles
	logger   *slog.Logger
	onSwitch SwitchHandler
}

// New creates a Reconciler with an empty sink table.
func New(server SoundServer, roles model.Roles, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		server: server,
		table:  model.NewSinkTable(),
		roles:  roles,
		logger: logger,
	}
}

// SetSwitchHandler sets the callback invoked after each redirection.
func (r *Reconciler) SetSwitchHandler(handler SwitchHandler) {
	r.onSwitch = handler
}

// SetRoles replaces the role bindings.
func (r *Reconciler) SetRoles(roles model.Roles) {
	if roles != r.roles {
		r.logger.Info("routing roles updated", "fallback", roles.Fallback, "preferred", roles.Preferred)
	}
	r.roles = roles
}

// Roles returns the current role bindings.
func (r *Reconciler) Roles() model.Roles {
	return r.roles
}

// Sinks returns the current table contents ordered by handle.
func (r *Reconciler) Sinks() []model.Sink {
	return r.table.All()
}

// Rescan rebuilds the sink table from a fresh enumeration.
// On error the previous table is kept unchanged.
func (r *Reconciler) Rescan(ctx context.Context) error {
	sinks, err := r.server.ListSinks(ctx)
	if err != nil {
		return fmt.Errorf("rescan sinks: %w", err)
	}
	r.table.Replace(sinks)
	r.logger.Debug("sink table rebuilt", "sinks", r.table.Snapshot())
	return nil
}

// RemoveSink drops every table entry with the given handle.
func (r *Reconciler) RemoveSink(handle int) int {
	n := r.table.RemoveHandle(handle)
	r.logger.Debug("sink removed", "handle", handle, "entries", n)
	return n
}

// HeadphonesConnected reports whether any sink has headphones available.
// Sinks are not told apart: with several jacks this is coarse.
func (r *Reconciler) HeadphonesConnected(ctx context.Context) (bool, error) {
	sinks, err := r.server.HeadphoneSinks(ctx)
	if err != nil {
		return false, fmt.Errorf("query headphones: %w", err)
	}
	return len(sinks) > 0, nil
}

// FallbackSink resolves the fallback role. Its absence is a *pulse.NotFoundError.
func (r *Reconciler) FallbackSink() (model.Sink, error) {
	s, ok := r.table.Lookup(r.roles.Fallback)
	if !ok {
		return model.Sink{}, &pulse.NotFoundError{Role: model.RoleFallback, StableName: r.roles.Fallback}
	}
	return s, nil
}

// PreferredSink resolves the preferred role. The preferred device is
// expected to come and go, so absence is reported with ok=false.
func (r *Reconciler) PreferredSink() (model.Sink, bool) {
	return r.table.Lookup(r.roles.Preferred)
}

// RedirectAllStreamsTo moves every playback stream to sink and then makes
// it the default sink. Moves and the default change are best effort: their
// failures are logged, never returned. The returned count is the number of
// streams a move was attempted for.
func (r *Reconciler) RedirectAllStreamsTo(ctx context.Context, sink int) (int, error) {
	streams, err := r.server.ListStreams(ctx)
	if err != nil {
		return 0, fmt.Errorf("redirect streams: %w", err)
	}

	for _, stream := range streams {
		if err := r.server.MoveStream(ctx, stream, sink); err != nil {
			r.logger.Warn("failed to move stream", "stream", stream, "sink", sink, "error", err)
		}
	}
	if err := r.server.SetDefaultSink(ctx, sink); err != nil {
		r.logger.Warn("failed to set default sink", "sink", sink, "error", err)
	}
	return len(streams), nil
}

// HandleEvent applies a single sink event.
func (r *Reconciler) HandleEvent(ctx context.Context, ev model.Event) error {
	id, err := newID()
	if err != nil {
		return err
	}
	return r.handleEvent(ctx, ev, id, r.logger.With("event_id", id))
}

func (r *Reconciler) handleEvent(ctx context.Context, ev model.Event, id string, logger *slog.Logger) error {
	logger.Debug("sink event", "type", ev.Type, "sink", ev.Sink)

	switch ev.Type {
	case model.EventChanged:
		return r.handleChanged(ctx, ev, id, logger)
	case model.EventNew:
		return r.Rescan(ctx)
	case model.EventRemoved:
		r.RemoveSink(ev.Sink)
		return nil
	default:
		return nil
	}
}

// handleChanged treats a change on the fallback sink as the cue to
// re-evaluate routing, which is how jack plug and unplug show up.
func (r *Reconciler) handleChanged(ctx context.Context, ev model.Event, id string, logger *slog.Logger) error {
	fallback, err := r.FallbackSink()
	if err != nil {
		return err
	}
	if ev.Sink != fallback.Handle {
		return nil
	}
	preferred, ok := r.PreferredSink()
	if !ok {
		return nil
	}

	headphones, err := r.HeadphonesConnected(ctx)
	if err != nil {
		return err
	}

	target, role := preferred, model.RolePreferred
	if headphones {
		target, role = fallback, model.RoleFallback
	}
	return r.switchTo(ctx, id, role, target, headphones, logger)
}

// Route redirects all streams to the sink bound to role.
// RoleFallback and RolePreferred force a target; any other role applies the
// automatic rule: preferred when present and no headphones are connected,
// fallback otherwise.
func (r *Reconciler) Route(ctx context.Context, role model.Role) (model.Switch, error) {
	id, err := newID()
	if err != nil {
		return model.Switch{}, err
	}
	logger := r.logger.With("event_id", id)

	fallback, err := r.FallbackSink()
	if err != nil {
		return model.Switch{}, err
	}
	preferred, havePreferred := r.PreferredSink()

	var headphones bool
	switch role {
	case model.RoleFallback:
	case model.RolePreferred:
		if !havePreferred {
			return model.Switch{}, &pulse.NotFoundError{Role: model.RolePreferred, StableName: r.roles.Preferred}
		}
	default:
		role = model.RoleFallback
		if havePreferred {
			if headphones, err = r.HeadphonesConnected(ctx); err != nil {
				return model.Switch{}, err
			}
			if !headphones {
				role = model.RolePreferred
			}
		}
	}

	target := fallback
	if role == model.RolePreferred {
		target = preferred
	}
	sw, err := r.redirect(ctx, id, role, target, headphones, logger)
	if err != nil {
		return model.Switch{}, err
	}
	r.notify(sw, logger)
	return sw, nil
}

func (r *Reconciler) switchTo(ctx context.Context, id string, role model.Role, target model.Sink, headphones bool, logger *slog.Logger) error {
	sw, err := r.redirect(ctx, id, role, target, headphones, logger)
	if err != nil {
		return err
	}
	r.notify(sw, logger)
	return nil
}

func (r *Reconciler) redirect(ctx context.Context, id string, role model.Role, target model.Sink, headphones bool, logger *slog.Logger) (model.Switch, error) {
	moved, err := r.RedirectAllStreamsTo(ctx, target.Handle)
	if err != nil {
		return model.Switch{}, err
	}

	sw := model.Switch{
		ID:                  id,
		Role:                role,
		StableName:          target.StableName,
		Handle:              target.Handle,
		StreamsMoved:        moved,
		HeadphonesConnected: headphones,
	}
	logger.Info("routed audio",
		"role", role,
		"sink", target.StableName,
		"handle", target.Handle,
		"streams", moved,
		"headphones", headphones)
	return sw, nil
}

func (r *Reconciler) notify(sw model.Switch, logger *slog.Logger) {
	if r.onSwitch == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("switch handler panicked", "panic", p)
		}
	}()
	r.onSwitch(sw)
}

func newID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}
