// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package inputreader owns the set of open evdev devices the daemon is
// currently listening to, keyed by file descriptor, and drains their key
// events.
package inputreader

import (
	"fmt"

	"github.com/easy-switcher/easy-switcher/internal/evdevutil"
)

type openDevice struct {
	dev  *evdevutil.Device
	path string
}

// Reader owns the fd-keyed map of open devices and the UID blacklist.
type Reader struct {
	devices   map[int]*openDevice
	blacklist map[string]bool
}

// New returns an empty Reader.
func New() *Reader {
	return &Reader{
		devices:   make(map[int]*openDevice),
		blacklist: make(map[string]bool),
	}
}

// AddToBlacklist marks a device UID as never to be opened (used to make
// sure the daemon never listens to the keyboard it itself creates).
func (r *Reader) AddToBlacklist(uid string) {
	r.blacklist[uid] = true
}

// AddDevice opens path and starts tracking it, unless it isn't a
// keyboard/mouse or its UID is blacklisted. Returns the fd to register
// with the event loop, or -1 (with a nil error) if the device was
// skipped rather than failed to open.
func (r *Reader) AddDevice(path string) (int, error) {
	dev, err := evdevutil.Open(path)
	if err != nil {
		return -1, err
	}
	if dev == nil {
		return -1, nil // not a keyboard or mouse, not an error
	}

	if r.blacklist[dev.UID] {
		dev.Close()
		return -1, nil
	}

	fd := dev.Fd()
	r.devices[fd] = &openDevice{dev: dev, path: path}
	return fd, nil
}

// RemoveDevice stops tracking and closes the device open on fd, if any.
func (r *Reader) RemoveDevice(fd int) {
	od, ok := r.devices[fd]
	if !ok {
		return
	}
	od.dev.Close()
	delete(r.devices, fd)
}

// Fds returns the fds of every device currently tracked, in no
// particular order.
func (r *Reader) Fds() []int {
	fds := make([]int, 0, len(r.devices))
	for fd := range r.devices {
		fds = append(fds, fd)
	}
	return fds
}

// FdForPath returns the fd currently open for path, or -1 if none.
func (r *Reader) FdForPath(path string) int {
	for fd, od := range r.devices {
		if od.path == path {
			return fd
		}
	}
	return -1
}

// Fetch drains all currently available events from fd, reporting
// (code, value) pairs of key events and skipping every other event type.
// On the driver's dropped-sync notification every event up to the next
// SYN_REPORT is discarded, key events included (see drainSync); the key
// state is not re-read afterwards. cb is called once per key event;
// draining stops when the device has no more events buffered.
func (r *Reader) Fetch(fd int, cb func(code uint16, value int32)) error {
	od, ok := r.devices[fd]
	if !ok {
		return fmt.Errorf("fetch: no device open on fd %d", fd)
	}

	for {
		code, value, evType, err := od.dev.ReadOne()
		if err != nil {
			return nil // EAGAIN or similar: nothing more buffered right now
		}

		if evType == evdevutil.EvSyn && code == evdevutil.SynDropped {
			r.drainSync(od)
			continue
		}

		if evType != evdevutil.EvKey {
			continue
		}

		cb(code, value)
	}
}

// drainSync reads and discards events until the next SYN_REPORT, per the
// standard recovery protocol for a dropped-sync notification: the kernel
// is telling us it couldn't buffer everything, so we resynchronize by
// throwing away whatever's left of this batch.
func (r *Reader) drainSync(od *openDevice) {
	for {
		code, _, evType, err := od.dev.ReadOne()
		if err != nil {
			return
		}
		if evType == evdevutil.EvSyn && code == evdevutil.SynReport {
			return
		}
	}
}

// Flush drains and discards any pending events on every open device,
// after a replay, so the daemon doesn't react to keys it just emitted
// itself through a different device.
func (r *Reader) Flush() {
	for _, od := range r.devices {
		for {
			_, _, _, err := od.dev.ReadOne()
			if err != nil {
				break
			}
		}
	}
}

// DeviceName returns the name of the device open on fd, or "" if none.
func (r *Reader) DeviceName(fd int) string {
	if od, ok := r.devices[fd]; ok {
		return od.dev.Name
	}
	return ""
}

// DeviceUID returns the UID of the device open on fd, or "" if none.
func (r *Reader) DeviceUID(fd int) string {
	if od, ok := r.devices[fd]; ok {
		return od.dev.UID
	}
	return ""
}

// Close closes every tracked device.
func (r *Reader) Close() {
	for fd := range r.devices {
		r.RemoveDevice(fd)
	}
}
