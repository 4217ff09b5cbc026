package dbus

import (
	"github.com/godbus/dbus/v5"
)

// Urgency levels defined by the freedesktop.org notification specification.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Notification holds the parameters of an org.freedesktop.Notifications.Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint from the notification.
// Returns UrgencyNormal if not specified.
func (n *Notification) Urgency() byte {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return b
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint from the notification.
func (n *Notification) Category() string {
	if v, ok := n.Hints["category"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Transient returns true if the transient hint is set.
// Transient notifications are not kept in the server's history.
func (n *Notification) Transient() bool {
	if v, ok := n.Hints["transient"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// StackTag extracts the x-dunst-stack-tag hint. Notifications sharing a
// stack tag replace each other on servers that support it.
func (n *Notification) StackTag() string {
	if v, ok := n.Hints["x-dunst-stack-tag"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (n *Notification) actions() []string {
	if n.Actions == nil {
		return []string{}
	}
	return n.Actions
}

func (n *Notification) hints() map[string]dbus.Variant {
	if n.Hints == nil {
		return map[string]dbus.Variant{}
	}
	return n.Hints
}
