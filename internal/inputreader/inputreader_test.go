// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package inputreader

import "testing"

func TestAddDeviceMissingPathReturnsError(t *testing.T) {
	r := New()
	fd, err := r.AddDevice("/dev/input/does-not-exist")
	if err == nil {
		t.Fatal("expected an error opening a nonexistent device")
	}
	if fd != -1 {
		t.Fatalf("fd = %d, want -1 on error", fd)
	}
}

func TestFdForPathUnknown(t *testing.T) {
	r := New()
	if fd := r.FdForPath("/dev/input/event0"); fd != -1 {
		t.Fatalf("FdForPath() = %d, want -1 for untracked device", fd)
	}
}

func TestDeviceNameAndUIDUnknown(t *testing.T) {
	r := New()
	if name := r.DeviceName(42); name != "" {
		t.Fatalf("DeviceName() = %q, want empty for untracked fd", name)
	}
	if uid := r.DeviceUID(42); uid != "" {
		t.Fatalf("DeviceUID() = %q, want empty for untracked fd", uid)
	}
}

func TestRemoveDeviceUnknownFdIsNoop(t *testing.T) {
	r := New()
	r.RemoveDevice(42) // must not panic
}

func TestFetchUnknownFdReturnsError(t *testing.T) {
	r := New()
	err := r.Fetch(42, func(code uint16, value int32) {
		t.Fatal("callback should not be invoked for an untracked fd")
	})
	if err == nil {
		t.Fatal("expected an error fetching from an untracked fd")
	}
}
