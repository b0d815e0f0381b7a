// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package vkeyboard

import (
	"os"
	"testing"
	"time"
)

func TestNewRequiresUinputAccess(t *testing.T) {
	if _, err := os.Stat("/dev/uinput"); err != nil {
		t.Skip("/dev/uinput not present, skipping")
	}

	kb, err := New(10 * time.Millisecond)
	if err != nil {
		t.Skipf("cannot open /dev/uinput (are you root?): %v", err)
	}
	defer kb.Close()

	if err := kb.EmitKey(30, 1); err != nil { // KEY_A down
		t.Fatalf("EmitKey() error = %v", err)
	}
	if err := kb.EmitKey(30, 0); err != nil { // KEY_A up
		t.Fatalf("EmitKey() error = %v", err)
	}
}

func TestKeyMaxCoversOnlyValidScancodeRange(t *testing.T) {
	if keyMax != 0xff {
		t.Errorf("keyMax = %#x, want 0xff (evdev scancodes are a single byte, 0-255)", keyMax)
	}

	seen := make(map[int]bool)
	for code := 0; code <= keyMax; code++ {
		seen[code] = true
	}
	if len(seen) != 256 {
		t.Errorf("setup loop advertises %d codes, want 256 (0-255)", len(seen))
	}
	if seen[256] {
		t.Error("setup loop advertises code 256, which is out of the 0-255 scancode range")
	}
}

func TestTrimNewline(t *testing.T) {
	cases := map[string]string{
		"foo\n": "foo",
		"foo":   "foo",
		"":      "",
	}
	for in, want := range cases {
		if got := trimNewline(in); got != want {
			t.Errorf("trimNewline(%q) = %q, want %q", in, got, want)
		}
	}
}
