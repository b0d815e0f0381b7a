// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package converter

import "testing"

const (
	keyA         = 30
	keyB         = 48
	keySpace     = 57
	keyEnter     = 28
	keyLeftShift = 42
	keyBackspace = 14
	keyTab       = 15
)

func typeKey(c *Converter, code uint16) {
	c.Push(code, Down)
	c.Push(code, Up)
}

func TestPushBufferKillerClearsBuffer(t *testing.T) {
	c := New()
	typeKey(c, keyA)
	c.Push(keyTab, Down)
	if c.BufferDump() != "(empty)" {
		t.Fatalf("expected buffer cleared after killer key, got %q", c.BufferDump())
	}
}

func TestPushBackspaceRemovesLastNonShiftKey(t *testing.T) {
	c := New()
	typeKey(c, keyA)
	typeKey(c, keyB)
	c.Push(keyBackspace, Down)

	want := "<a DOWN>"
	if got := c.BufferDump(); got != want {
		t.Fatalf("BufferDump() = %q, want %q", got, want)
	}
}

func TestDoubleShiftTriggersConvertWord(t *testing.T) {
	c := New()
	typeKey(c, keyA)
	typeKey(c, keyB)

	c.Push(keyLeftShift, Down)
	c.Push(keyLeftShift, Up)
	c.Push(keyLeftShift, Down)
	c.Push(keyLeftShift, Up)

	action := c.Process()
	if action != ConvertWord {
		t.Fatalf("Process() = %v, want ConvertWord", action)
	}
}

func TestDoubleShiftWithHeldShiftTriggersConvertAll(t *testing.T) {
	c := New()
	typeKey(c, keyA)

	c.Push(keyLeftShift, Down) // the held shift
	c.Push(keyLeftShift, Down)
	c.Push(keyLeftShift, Up)
	c.Push(keyLeftShift, Down)
	c.Push(keyLeftShift, Up)
	c.Push(keyLeftShift, Up)

	action := c.Process()
	if action != ConvertAll {
		t.Fatalf("Process() = %v, want ConvertAll", action)
	}
}

func TestUserDefinedTriggerKey(t *testing.T) {
	c := New()
	c.ConvKey = 87 // e.g. F11, a dedicated trigger key distinct from shift

	typeKey(c, keyA)
	c.Push(87, Down)
	c.Push(87, Up)

	action := c.Process()
	if action != ConvertWord {
		t.Fatalf("Process() = %v, want ConvertWord", action)
	}
}

func TestNoTriggerReturnsNone(t *testing.T) {
	c := New()
	typeKey(c, keyA)
	if action := c.Process(); action != None {
		t.Fatalf("Process() = %v, want None", action)
	}
}

func TestTrimBufferPreservesShiftAfterTextKey(t *testing.T) {
	c := New()
	typeKey(c, keyA)
	// a shift release right after a text key must survive trim, since it's
	// part of what was actually typed (e.g. typing a capital letter).
	c.Push(keyLeftShift, Up)

	// Now trigger the default double-shift pattern.
	c.Push(keyLeftShift, Down)
	c.Push(keyLeftShift, Down)
	c.Push(keyLeftShift, Up)
	c.Push(keyLeftShift, Down)
	c.Push(keyLeftShift, Up)
	c.Push(keyLeftShift, Up)

	if action := c.Process(); action != ConvertAll {
		t.Fatalf("Process() = %v, want ConvertAll", action)
	}

	dump := c.BufferDump()
	want := "<a DOWN><leftshift UP>"
	if dump != want {
		t.Fatalf("BufferDump() after trim = %q, want %q", dump, want)
	}
}

func TestConvertWordReplaysOnlyLastWord(t *testing.T) {
	c := New()
	c.LSKeys = [2]uint16{100, 0}

	typeKey(c, keyA)
	typeKey(c, keySpace)
	typeKey(c, keyB)

	events := c.Convert(ConvertWord)

	// layout switch, then one backspace, then one key-down+up for "b".
	want := []KeyEvent{
		{100, Down}, {100, Up},
		{keyBackspace, Down}, {keyBackspace, Up},
		{keyB, Down}, {keyB, Up},
	}
	if !eventsEqual(events, want) {
		t.Fatalf("Convert(ConvertWord) = %+v, want %+v", events, want)
	}
}

func TestConvertAllReplaysWholeLine(t *testing.T) {
	c := New()
	c.LSKeys = [2]uint16{100, 0}

	typeKey(c, keyA)
	typeKey(c, keyEnter)
	typeKey(c, keyB)
	typeKey(c, keySpace)
	typeKey(c, keyA)

	events := c.Convert(ConvertAll)

	want := []KeyEvent{
		{100, Down}, {100, Up},
		{keyBackspace, Down}, {keyBackspace, Up},
		{keyBackspace, Down}, {keyBackspace, Up},
		{keyBackspace, Down}, {keyBackspace, Up},
		{keyB, Down}, {keyB, Up},
		{keySpace, Down}, {keySpace, Up},
		{keyA, Down}, {keyA, Up},
	}
	if !eventsEqual(events, want) {
		t.Fatalf("Convert(ConvertAll) = %+v, want %+v", events, want)
	}
}

func TestBufferDumpEmpty(t *testing.T) {
	c := New()
	if got := c.BufferDump(); got != "(empty)" {
		t.Fatalf("BufferDump() = %q, want (empty)", got)
	}
}

func eventsEqual(a, b []KeyEvent) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
