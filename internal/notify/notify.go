// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package notify sends best-effort desktop notifications over the D-Bus
// session bus, used in debug mode to surface devices the daemon decided
// to ignore.
package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
	notifyIface = notifyDest + ".Notify"
)

// Notifier sends notifications over a session bus connection.
type Notifier struct {
	conn    *dbus.Conn
	appName string
}

// New connects to the session bus right away. The connection is
// best-effort: callers in environments without a running session bus
// (most servers) should treat a non-nil error as "notifications
// unavailable", not as a fatal startup condition.
func New(appName string) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	return &Notifier{conn: conn, appName: appName}, nil
}

// DeviceRejected notifies that a device was opened but ignored, either
// because it's blacklisted or because it doesn't look like a keyboard or
// mouse.
func (n *Notifier) DeviceRejected(name, reason string) error {
	return n.send(fmt.Sprintf("Easy Switcher ignored %q", name), reason, "input-keyboard")
}

func (n *Notifier) send(summary, body, icon string) error {
	obj := n.conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyIface, 0,
		n.appName,      // app_name
		uint32(0),      // replaces_id
		icon,           // app_icon
		summary,        // summary
		body,           // body
		[]string{},     // actions
		map[string]dbus.Variant{}, // hints
		int32(5000),    // expire_timeout (ms)
	)
	return call.Err
}

// Close releases the underlying bus connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}
