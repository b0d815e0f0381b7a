// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package converter implements the rolling key-event buffer and trigger
// logic that decides when the user has just typed text in the wrong
// keyboard layout, and how to undo and replay it.
package converter

import (
	"strconv"
	"strings"

	"github.com/easy-switcher/easy-switcher/internal/evdevutil"
)

// Key state values, matching the evdev EV_KEY value field.
const (
	Up     int32 = 0
	Down   int32 = 1
	Repeat int32 = 2
)

// Action describes what process should trigger a replay of.
type Action int

const (
	// None means no trigger matched; nothing to do.
	None Action = iota
	// ConvertWord replays only the last word of the buffer.
	ConvertWord
	// ConvertAll replays the whole buffer since the last line break.
	ConvertAll
)

// KeyEvent is a single (code, value) pair as read from an input device.
type KeyEvent struct {
	Code  uint16
	Value int32
}

// pattern is one slot of a trigger template: the event it expects, and
// whether that event should or should not match for the template to hold.
type pattern struct {
	code      int32 // evdevutil.ANYShift, or a concrete key code
	value     int32
	condition bool
}

// Converter holds the rolling key buffer and the configured trigger key.
//
// ConvKey is the user-configured single-key trigger (0 means the default
// double-shift trigger is used instead). LSKeys holds the one or two key
// codes that switch the system keyboard layout.
type Converter struct {
	ConvKey int32
	LSKeys  [2]uint16

	buffer []KeyEvent
}

// New returns a Converter using the default double-shift trigger.
func New() *Converter {
	return &Converter{}
}

// Push admits one raw key event into the rolling buffer, applying the
// admission rules: buffer killers clear it, shift keys are always kept,
// backspace removes the most recent non-shift key, the configured trigger
// key is tracked without its auto-repeats, and other keys are recorded only
// on press and only if they're in the recognized text-key set.
func (c *Converter) Push(code uint16, value int32) {
	if evdevutil.IsBufferKiller(code) {
		c.clear()
		return
	}

	if c.ConvKey != 0 && int32(code) == c.ConvKey && value != Repeat {
		c.buffer = append(c.buffer, KeyEvent{code, value})
		return
	}

	if evdevutil.IsShiftKey(code) {
		c.buffer = append(c.buffer, KeyEvent{code, value})
		return
	}

	if evdevutil.IsBackspace(code) && value != Up {
		for i := len(c.buffer) - 1; i >= 0; i-- {
			if !evdevutil.IsShiftKey(c.buffer[i].Code) {
				c.buffer = append(c.buffer[:i], c.buffer[i+1:]...)
				break
			}
		}
	}

	if evdevutil.IsTextKey(code) && value != Up {
		c.buffer = append(c.buffer, KeyEvent{code, Down})
	}
}

// Process inspects the tail of the buffer against the active trigger
// templates. On a match it trims the buffer and returns the matched
// Action; otherwise it returns None and leaves the buffer untouched.
func (c *Converter) Process() Action {
	if len(c.buffer) == 0 {
		return None
	}

	if c.ConvKey == 0 {
		if c.matches([]pattern{
			{evdevutil.ANYShift, Down, false},
			{evdevutil.ANYShift, Down, true},
			{evdevutil.ANYShift, Up, true},
			{evdevutil.ANYShift, Down, true},
			{evdevutil.ANYShift, Up, true},
		}) {
			c.trim()
			return ConvertWord
		}

		if c.matches([]pattern{
			{evdevutil.ANYShift, Down, true},
			{evdevutil.ANYShift, Down, true},
			{evdevutil.ANYShift, Up, true},
			{evdevutil.ANYShift, Down, true},
			{evdevutil.ANYShift, Up, true},
			{evdevutil.ANYShift, Up, true},
		}) {
			c.trim()
			return ConvertAll
		}
		return None
	}

	if c.matches([]pattern{
		{evdevutil.ANYShift, Down, false},
		{c.ConvKey, Down, true},
		{c.ConvKey, Up, true},
	}) {
		c.trim()
		return ConvertWord
	}

	if c.matches([]pattern{
		{evdevutil.ANYShift, Down, true},
		{c.ConvKey, Down, true},
		{c.ConvKey, Up, true},
		{evdevutil.ANYShift, Up, true},
	}) {
		c.trim()
		return ConvertAll
	}

	if c.matches([]pattern{
		{evdevutil.ANYShift, Down, true},
		{c.ConvKey, Down, true},
		{evdevutil.ANYShift, Up, true},
		{c.ConvKey, Up, true},
	}) {
		c.trim()
		return ConvertAll
	}

	return None
}

// Convert returns the sequence of events to emit for action, without
// modifying the internal buffer: the layout-switch combo, one backspace
// per non-shift key from the replay start to the end of the buffer, then
// the buffered keys themselves (each followed by a synthetic release,
// since the buffer only stores presses for non-shift keys).
func (c *Converter) Convert(action Action) []KeyEvent {
	var result []KeyEvent

	result = append(result, KeyEvent{c.LSKeys[0], Down}, KeyEvent{c.LSKeys[0], Up})
	if c.LSKeys[1] != 0 {
		result = append(result, KeyEvent{c.LSKeys[1], Down}, KeyEvent{c.LSKeys[1], Up})
	}

	start := c.replayStart(action)

	for i := start; i < len(c.buffer); i++ {
		if !evdevutil.IsShiftKey(c.buffer[i].Code) {
			result = append(result,
				KeyEvent{evdevutil.Backspace, Down},
				KeyEvent{evdevutil.Backspace, Up},
			)
		}
	}

	for i := start; i < len(c.buffer); i++ {
		ev := c.buffer[i]
		result = append(result, ev)
		if !evdevutil.IsShiftKey(ev.Code) {
			result = append(result, KeyEvent{ev.Code, Up})
		}
	}

	return result
}

// replayStart finds where in the buffer the replay should begin: the
// start of the last word for ConvertWord, or the start of the current
// line for ConvertAll.
func (c *Converter) replayStart(action Action) int {
	i := len(c.buffer) - 1

	switch action {
	case ConvertWord:
		for i >= 0 && evdevutil.IsWordSeparator(c.buffer[i].Code) {
			i--
		}
		for i >= 0 && !evdevutil.IsWordSeparator(c.buffer[i].Code) {
			i--
		}
	case ConvertAll:
		for i >= 0 && evdevutil.IsLineSeparator(c.buffer[i].Code) {
			i--
		}
		for i >= 0 && !evdevutil.IsLineSeparator(c.buffer[i].Code) {
			i--
		}
	default:
		return 0
	}

	return i + 1
}

// BufferDump renders the current buffer for debug logging.
func (c *Converter) BufferDump() string {
	if len(c.buffer) == 0 {
		return "(empty)"
	}

	var b strings.Builder
	for _, ev := range c.buffer {
		b.WriteByte('<')
		b.WriteString(evdevutil.KeyName(ev.Code))
		b.WriteByte(' ')
		b.WriteString(stateName(ev.Value))
		b.WriteByte('>')
	}
	return b.String()
}

func stateName(value int32) string {
	switch value {
	case Down:
		return "DOWN"
	case Up:
		return "UP"
	case Repeat:
		return "REPEAT"
	default:
		return strconv.Itoa(int(value))
	}
}

func (c *Converter) clear() {
	c.buffer = c.buffer[:0]
}

// matches compares the tail of the buffer against pattern, entry by entry.
// A pattern entry of evdevutil.ANYShift matches any shift key code instead
// of a literal code. Each entry's condition says whether the corresponding
// buffer event is expected to match (true) or expected not to match
// (false).
func (c *Converter) matches(pat []pattern) bool {
	if len(c.buffer) < len(pat) {
		return false
	}

	offset := len(c.buffer) - len(pat)
	for i, p := range pat {
		ev := c.buffer[offset+i]

		var codeMatches bool
		if p.code == evdevutil.ANYShift {
			codeMatches = evdevutil.IsShiftKey(ev.Code)
		} else {
			codeMatches = int32(ev.Code) == p.code
		}

		if (codeMatches && ev.Value == p.value) != p.condition {
			return false
		}
	}
	return true
}

// trim removes trailing non-text events from the buffer, but keeps a
// shift release if it immediately follows a text key: that release is
// still part of "what was just typed" and must be preserved for replay.
func (c *Converter) trim() {
	for len(c.buffer) > 0 {
		back := c.buffer[len(c.buffer)-1]
		if evdevutil.IsTextKey(back.Code) {
			break
		}

		if evdevutil.IsShiftKey(back.Code) && back.Value == Up {
			if len(c.buffer) > 1 && evdevutil.IsTextKey(c.buffer[len(c.buffer)-2].Code) {
				break
			}
		}

		c.buffer = c.buffer[:len(c.buffer)-1]
	}
}
