package daemon

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize/english"
	godbus "github.com/godbus/dbus/v5"

	"github.com/jmylchreest/sinkswitch/internal/dbus"
	"github.com/jmylchreest/sinkswitch/internal/model"
)

// NotificationLevel indicates the urgency of a notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

// NotifyFunc delivers a notification and returns the server-assigned ID.
type NotifyFunc func(notification *dbus.Notification) (uint32, error)

// Notifier sends desktop notifications about switches and daemon events.
// The same key is not notified again within the minimum interval.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	notifyHandler NotifyFunc

	// Rate limiting
	lastNotifyTime map[string]time.Time // key -> last notification time
	minInterval    time.Duration
	now            func() time.Time

	expireTimeout time.Duration
	lastID        uint32 // replaced by the next popup so switches don't stack
	enabled       bool
}

// NewNotifier creates a new Notifier. It is disabled until SetEnabled(true).
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		expireTimeout:  3 * time.Second,
		now:            time.Now,
	}
}

// SetNotifyHandler sets the function that delivers notifications.
func (n *Notifier) SetNotifyHandler(handler NotifyFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifyHandler = handler
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the same key.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// SetExpireTimeout sets how long popups stay visible.
func (n *Notifier) SetExpireTimeout(timeout time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expireTimeout = timeout
}

// Notify sends a notification if not rate-limited. It reports whether the
// notification was delivered.
func (n *Notifier) Notify(key, icon, summary, body string, level NotificationLevel) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return false
	}
	if n.notifyHandler == nil {
		n.logger.Debug("notification skipped: no handler", "summary", summary)
		return false
	}

	now := n.now()
	if lastTime, ok := n.lastNotifyTime[key]; ok && now.Sub(lastTime) < n.minInterval {
		n.logger.Debug("notification rate-limited", "key", key, "summary", summary)
		return false
	}
	n.lastNotifyTime[key] = now

	urgency := dbus.UrgencyNormal
	switch level {
	case NotificationLevelInfo:
		urgency = dbus.UrgencyLow
	case NotificationLevelError:
		urgency = dbus.UrgencyCritical
	}

	notification := &dbus.Notification{
		AppName:    "sinkswitch",
		ReplacesID: n.lastID,
		AppIcon:    icon,
		Summary:    summary,
		Body:       body,
		Hints: map[string]godbus.Variant{
			"urgency":           godbus.MakeVariant(urgency),
			"category":          godbus.MakeVariant("device"),
			"transient":         godbus.MakeVariant(true),
			"desktop-entry":     godbus.MakeVariant("sinkswitch"),
			"x-dunst-stack-tag": godbus.MakeVariant("sinkswitch"),
		},
		ExpireTimeout: int32(n.expireTimeout / time.Millisecond),
	}

	n.logger.Debug("sending notification", "key", key, "summary", summary, "level", level)

	id, err := n.notifyHandler(notification)
	if err != nil {
		n.logger.Warn("failed to send notification", "summary", summary, "error", err)
		return false
	}
	n.lastID = id
	return true
}

// NotifySwitch announces that audio was routed to a new sink.
func (n *Notifier) NotifySwitch(sw model.Switch) bool {
	icon := "audio-speakers"
	if sw.Role == model.RolePreferred {
		icon = "audio-card"
	}
	if sw.HeadphonesConnected {
		icon = "audio-headphones"
	}

	body := english.Plural(sw.StreamsMoved, "stream", "") + " moved"
	if sw.HeadphonesConnected {
		body += ", headphones connected"
	}

	return n.Notify(
		"switch:"+sw.StableName,
		icon,
		"Audio output: "+sw.StableName,
		body,
		NotificationLevelInfo,
	)
}

// NotifyConfigReloaded sends a notification about config being reloaded.
func (n *Notifier) NotifyConfigReloaded(roles model.Roles) bool {
	return n.Notify(
		"config-reload",
		"dialog-information",
		"Configuration Reloaded",
		fmt.Sprintf("Fallback: %s\nPreferred: %s", roles.Fallback, roles.Preferred),
		NotificationLevelInfo,
	)
}

// NotifyConfigError sends a notification about a config that failed to load.
func (n *Notifier) NotifyConfigError(err error) bool {
	return n.Notify(
		"config-error",
		"dialog-warning",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyAudioError sends a notification about chime playback failing.
func (n *Notifier) NotifyAudioError(err error) bool {
	return n.Notify(
		"audio-error",
		"dialog-warning",
		"Audio Error",
		"Failed to play switch sound: "+err.Error(),
		NotificationLevelWarning,
	)
}
