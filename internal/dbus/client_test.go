package dbus

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObject records Call invocations. Other BusObject methods are not used.
type fakeObject struct {
	dbus.BusObject
	method string
	args   []interface{}
	reply  []interface{}
	err    error
}

func (f *fakeObject) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.method = method
	f.args = args
	return &dbus.Call{Err: f.err, Body: f.reply}
}

func TestClientNotify(t *testing.T) {
	obj := &fakeObject{reply: []interface{}{uint32(42)}}
	client := NewClient(obj)

	n := &Notification{
		AppName: "sinkswitch",
		AppIcon: "audio-headphones",
		Summary: "Audio output",
		Body:    "Switched to USB Audio DAC",
		Hints: map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(UrgencyLow),
		},
		ExpireTimeout: 3000,
	}

	id, err := client.Notify(n)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)

	assert.Equal(t, "org.freedesktop.Notifications.Notify", obj.method)
	require.Len(t, obj.args, 8)
	assert.Equal(t, "sinkswitch", obj.args[0])
	assert.Equal(t, uint32(0), obj.args[1])
	assert.Equal(t, "audio-headphones", obj.args[2])
	assert.Equal(t, "Audio output", obj.args[3])
	assert.Equal(t, "Switched to USB Audio DAC", obj.args[4])
	assert.Equal(t, []string{}, obj.args[5])
	assert.Equal(t, n.Hints, obj.args[6])
	assert.Equal(t, int32(3000), obj.args[7])
}

func TestClientNotify_NilHintsSendEmptyMap(t *testing.T) {
	obj := &fakeObject{reply: []interface{}{uint32(1)}}
	_, err := NewClient(obj).Notify(&Notification{Summary: "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]dbus.Variant{}, obj.args[6])
}

func TestClientNotify_CallError(t *testing.T) {
	obj := &fakeObject{err: errors.New("org.freedesktop.DBus.Error.ServiceUnknown")}
	_, err := NewClient(obj).Notify(&Notification{Summary: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ServiceUnknown")
}

func TestClientNotify_BadReply(t *testing.T) {
	obj := &fakeObject{reply: []interface{}{"not an id"}}
	_, err := NewClient(obj).Notify(&Notification{Summary: "x"})
	assert.Error(t, err)
}

func TestClientCloseWithoutConnection(t *testing.T) {
	assert.NoError(t, NewClient(&fakeObject{}).Close())
}

func TestNotificationHints(t *testing.T) {
	n := &Notification{
		Hints: map[string]dbus.Variant{
			"urgency":           dbus.MakeVariant(UrgencyCritical),
			"category":          dbus.MakeVariant("device"),
			"transient":         dbus.MakeVariant(true),
			"x-dunst-stack-tag": dbus.MakeVariant("sinkswitch"),
		},
	}
	assert.Equal(t, UrgencyCritical, n.Urgency())
	assert.Equal(t, "device", n.Category())
	assert.True(t, n.Transient())
	assert.Equal(t, "sinkswitch", n.StackTag())

	empty := &Notification{}
	assert.Equal(t, UrgencyNormal, empty.Urgency())
	assert.Empty(t, empty.Category())
	assert.False(t, empty.Transient())
	assert.Empty(t, empty.StackTag())
}

func TestNotificationHints_WrongType(t *testing.T) {
	n := &Notification{
		Hints: map[string]dbus.Variant{
			"urgency":   dbus.MakeVariant("high"),
			"transient": dbus.MakeVariant("yes"),
		},
	}
	assert.Equal(t, UrgencyNormal, n.Urgency())
	assert.False(t, n.Transient())
}
