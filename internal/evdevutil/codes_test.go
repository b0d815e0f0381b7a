// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package evdevutil

import "testing"

func TestIsTextKey(t *testing.T) {
	if !IsTextKey(30) { // KEY_A
		t.Error("expected KEY_A to be a text key")
	}
	if IsTextKey(15) { // KEY_TAB
		t.Error("expected KEY_TAB to not be a text key")
	}
}

func TestIsShiftKey(t *testing.T) {
	if !IsShiftKey(42) || !IsShiftKey(54) { // KEY_LEFTSHIFT, KEY_RIGHTSHIFT
		t.Error("expected both shift codes to be recognized")
	}
	if IsShiftKey(29) { // KEY_LEFTCTRL
		t.Error("leftctrl must not be classified as shift")
	}
}

func TestIsBufferKiller(t *testing.T) {
	for _, code := range []uint16{15, 29, 56, 103, 272} { // tab, leftctrl, leftalt, up, btnleft
		if !IsBufferKiller(code) {
			t.Errorf("expected code %d to be a buffer killer", code)
		}
	}
	if IsBufferKiller(30) { // KEY_A
		t.Error("KEY_A must not be a buffer killer")
	}
}

func TestIsBackspace(t *testing.T) {
	if !IsBackspace(14) {
		t.Error("expected code 14 to be backspace")
	}
	if IsBackspace(15) {
		t.Error("tab must not be classified as backspace")
	}
}

func TestWordAndLineSeparators(t *testing.T) {
	if !IsWordSeparator(57) { // KEY_SPACE
		t.Error("space must be a word separator")
	}
	if !IsWordSeparator(28) || !IsLineSeparator(28) { // KEY_ENTER
		t.Error("enter must separate both words and lines")
	}
	if IsLineSeparator(57) {
		t.Error("space must not separate lines")
	}
}

func TestKeyNameKnownAndUnknown(t *testing.T) {
	if got := KeyName(30); got != "a" {
		t.Errorf("KeyName(30) = %q, want %q", got, "a")
	}
	if got := KeyName(9999); got != "9999" {
		t.Errorf("KeyName(9999) = %q, want numeric fallback", got)
	}
}
