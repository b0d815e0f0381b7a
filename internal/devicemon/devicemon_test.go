// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package devicemon

import (
	"os"
	"testing"
)

func TestNewEnumeratesExistingDevices(t *testing.T) {
	if _, err := os.Stat(inputDeviceDir); err != nil {
		t.Skip("/dev/input not present, skipping")
	}

	m, err := New()
	if err != nil {
		t.Skipf("cannot watch %s: %v", inputDeviceDir, err)
	}
	defer m.Close()

	for {
		_, ok := m.Fetch()
		if !ok {
			break
		}
	}

	if !m.Empty() {
		t.Fatal("expected queue to be empty after draining")
	}
}

func TestIsEventNode(t *testing.T) {
	cases := map[string]bool{
		"event0":  true,
		"event12": true,
		"mouse0":  false,
		"js0":     false,
		"":        false,
	}
	for name, want := range cases {
		if got := isEventNode(name); got != want {
			t.Errorf("isEventNode(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTrimDir(t *testing.T) {
	if got := trimDir("/dev/input/event3"); got != "event3" {
		t.Errorf("trimDir() = %q, want %q", got, "event3")
	}
}
