package dbus

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the well-known name of the notification server.
	DBusBusName = "org.freedesktop.Notifications"
)

// Client sends notifications to whichever server owns the notification bus name.
type Client struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	object dbus.BusObject
}

// NewClient creates a client for the given bus object.
func NewClient(object dbus.BusObject) *Client {
	return &Client{object: object}
}

// Connect opens a private session bus connection and returns a client for
// the notification server.
func Connect() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn:   conn,
		object: conn.Object(DBusBusName, dbus.ObjectPath(DBusPath)),
	}, nil
}

// Notify sends the notification and returns the server-assigned ID.
func (c *Client) Notify(n *Notification) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	call := c.object.Call(DBusInterface+".Notify", 0,
		n.AppName,
		n.ReplacesID,
		n.AppIcon,
		n.Summary,
		n.Body,
		n.actions(),
		n.hints(),
		n.ExpireTimeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: decode reply: %w", err)
	}
	return id, nil
}

// Close releases the bus connection if the client owns one.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
