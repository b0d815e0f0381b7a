// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package vkeyboard creates a synthetic uinput keyboard device and emits
// key events through it, so the daemon can replay the keys it deletes and
// send the system's layout-switch shortcut.
package vkeyboard

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/easy-switcher/easy-switcher/internal/evdevutil"
)

const (
	deviceName = "Easy Switcher virtual keyboard"

	busVirtual = 0x06
	vendorID   = 0x0777
	productID  = 0x0777
	version    = 1

	// keyMax bounds the range of key codes enabled on the virtual device:
	// every code this daemon ever replays (layout-switch keys, backspace,
	// typed text) is a single evdev scancode byte, 0-255.
	keyMax = 0xff

	evKey = 0x01
	evSyn = 0x00
	// synReport marks the end of a batch of events.
	synReport = 0

	uiSetEvbit   = 0x40045564
	uiSetKeybit  = 0x40045565
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiDevSetup   = 0x405c5503

	devnodePollInterval = 100 * time.Millisecond
	devnodePollAttempts = 100
)

// inputID mirrors struct input_id from <linux/input.h>.
type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputSetup mirrors struct uinput_setup from <linux/uinput.h>.
type uinputSetup struct {
	ID           inputID
	Name         [80]byte
	FFEffectsMax uint32
}

// inputEvent mirrors struct input_event on 64-bit Linux.
type inputEvent struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}

// Keyboard is a synthetic keyboard device created via /dev/uinput.
type Keyboard struct {
	file *os.File
	// Delay is applied after emitting each event, giving the system time
	// to process it before the next one arrives.
	Delay time.Duration
}

// New creates and registers the virtual keyboard, then waits up to about
// 10 s for it to be listed under /sys/class/input, failing if it is not.
func New(delay time.Duration) (*Keyboard, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/uinput: %w (are you root, or in the input group?)", err)
	}

	k := &Keyboard{file: f, Delay: delay}
	if err := k.setup(); err != nil {
		f.Close()
		return nil, err
	}

	return k, nil
}

func (k *Keyboard) setup() error {
	if err := k.ioctl(uiSetEvbit, uintptr(evKey)); err != nil {
		return fmt.Errorf("UI_SET_EVBIT(EV_KEY): %w", err)
	}
	if err := k.ioctl(uiSetEvbit, uintptr(evSyn)); err != nil {
		return fmt.Errorf("UI_SET_EVBIT(EV_SYN): %w", err)
	}

	for code := 0; code <= keyMax; code++ {
		// best effort: a handful of reserved codes may be rejected by the
		// kernel, that's fine, we only need the ones actually replayed.
		_ = k.ioctl(uiSetKeybit, uintptr(code))
	}

	setup := uinputSetup{
		ID: inputID{
			Bustype: busVirtual,
			Vendor:  vendorID,
			Product: productID,
			Version: version,
		},
	}
	copy(setup.Name[:], deviceName)

	if err := k.ioctlPointer(uiDevSetup, unsafe.Pointer(&setup)); err != nil {
		return fmt.Errorf("UI_DEV_SETUP: %w", err)
	}

	if err := k.ioctl(uiDevCreate, 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}

	return k.waitForDevnode()
}

// waitForDevnode polls sysfs for the freshly created device's name
// attribute, since uinput makes the device visible to userspace
// asynchronously after UI_DEV_CREATE returns.
func (k *Keyboard) waitForDevnode() error {
	for i := 0; i < devnodePollAttempts; i++ {
		entries, err := os.ReadDir("/sys/class/input")
		if err == nil {
			for _, e := range entries {
				name, err := os.ReadFile("/sys/class/input/" + e.Name() + "/device/name")
				if err == nil && trimNewline(string(name)) == deviceName {
					return nil
				}
			}
		}
		time.Sleep(devnodePollInterval)
	}
	return fmt.Errorf("virtual keyboard did not appear in /sys/class/input within %v",
		devnodePollInterval*devnodePollAttempts)
}

func trimNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}

// UID derives the same kind of stable device identifier evdevutil computes
// for real devices, so the input reader can blacklist the daemon's own
// virtual keyboard and avoid reacting to the keys it just emitted.
func (k *Keyboard) UID() string {
	return evdevutil.UID(busVirtual, vendorID, productID, version, deviceName)
}

// EmitKey sends a single key event followed by a SYN_REPORT, then sleeps
// for Delay so downstream consumers have time to react before the next
// event arrives.
func (k *Keyboard) EmitKey(code uint16, value int32) error {
	if err := k.write(evKey, code, value); err != nil {
		return err
	}
	if err := k.write(evSyn, synReport, 0); err != nil {
		return err
	}
	if k.Delay > 0 {
		time.Sleep(k.Delay)
	}
	return nil
}

func (k *Keyboard) write(evType, code uint16, value int32) error {
	ev := inputEvent{Type: evType, Code: code, Value: value}
	return binary.Write(k.file, binary.LittleEndian, &ev)
}

func (k *Keyboard) ioctl(req, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, k.file.Fd(), req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func (k *Keyboard) ioctlPointer(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, k.file.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Close destroys the virtual device and releases its file descriptor.
func (k *Keyboard) Close() error {
	if k.file == nil {
		return nil
	}
	if err := k.ioctl(uiDevDestroy, 0); err != nil {
		fmt.Fprintf(os.Stderr, "warning: UI_DEV_DESTROY failed: %v\n", err)
	}
	err := k.file.Close()
	k.file = nil
	return err
}
