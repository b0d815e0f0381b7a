// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package evdevutil

import (
	"fmt"
	"hash/fnv"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"
)

// Device wraps an opened evdev character device in non-blocking mode, ready
// for registration with an epoll-based event loop.
type Device struct {
	Path string
	UID  string
	Name string

	dev *evdev.InputDevice
}

// Open opens path, puts its fd in non-blocking mode and returns a Device if
// it looks like a keyboard or mouse (it exposes EV_KEY and either KEY_A or
// BTN_LEFT). Devices lacking that capability return (nil, nil): not an
// error, just not something we care to track.
func Open(path string) (*Device, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if !hasKeyboardOrMouseCapability(dev) {
		dev.File.Close()
		return nil, nil
	}

	if err := unix.SetNonblock(int(dev.File.Fd()), true); err != nil {
		dev.File.Close()
		return nil, fmt.Errorf("set nonblock on %s: %w", path, err)
	}

	return &Device{
		Path: path,
		UID:  uid(dev),
		Name: dev.Name,
		dev:  dev,
	}, nil
}

func hasKeyboardOrMouseCapability(dev *evdev.InputDevice) bool {
	hasKeyType := false
	hasAnchorKey := false
	for capType, codes := range dev.Capabilities {
		if capType.Type != evdev.EV_KEY {
			continue
		}
		hasKeyType = true
		for _, cc := range codes {
			if cc.Code == evdev.KEY_A || cc.Code == evdev.BTN_LEFT {
				hasAnchorKey = true
			}
		}
	}
	return hasKeyType && hasAnchorKey
}

// uid derives a stable identifier for a device from its identity (bus type,
// vendor, product, version) and a hash of its name, so the same physical
// device gets the same UID across reconnects while still distinguishing
// otherwise-identical devices with different names.
func uid(dev *evdev.InputDevice) string {
	return UID(dev.Bustype, dev.Vendor, dev.Product, dev.Version, dev.Name)
}

// UID formats the same kind of stable device identifier Open attaches to
// every real Device, from the raw identity fields rather than an opened
// evdev.InputDevice. Exported so vkeyboard can compute a matching UID for
// the virtual keyboard it creates, which the input reader then blacklists.
func UID(bustype, vendor, product, version uint16, name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return fmt.Sprintf("%04x:%04x:%04x:%04x:%016x", bustype, vendor, product, version, h.Sum64())
}

// Fd returns the underlying file descriptor, for epoll registration.
func (d *Device) Fd() int {
	return int(d.dev.File.Fd())
}

// ReadOne returns the next raw input event, or an error wrapping
// unix.EAGAIN when none is currently available (the device is
// non-blocking).
func (d *Device) ReadOne() (code uint16, value int32, eventType uint16, err error) {
	ie, err := d.dev.ReadOne()
	if err != nil {
		return 0, 0, 0, err
	}
	return ie.Code, ie.Value, ie.Type, nil
}

// Close releases the underlying file descriptor.
func (d *Device) Close() error {
	return d.dev.File.Close()
}

// EV_KEY and EV_SYN/SYN_DROPPED re-exported so callers don't need their own
// import of the evdev package just to compare event types.
const (
	EvKey      = uint16(evdev.EV_KEY)
	EvSyn      = uint16(evdev.EV_SYN)
	SynReport  = uint16(evdev.SYN_REPORT)
	SynDropped = uint16(evdev.SYN_DROPPED)
)
