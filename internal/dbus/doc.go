// Package dbus sends desktop notifications over the
// org.freedesktop.Notifications D-Bus interface.
package dbus
