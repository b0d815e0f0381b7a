// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package evdevutil classifies evdev key codes and derives stable device
// identifiers, independent of any single input device.
package evdevutil

import evdev "github.com/gvalkov/golang-evdev"

// ANYShift is a wildcard code meaning "any shift key", used by trigger
// patterns that don't care which side was pressed.
const ANYShift = -100

// textKeys are the keys counted as "typed text" for buffer admission and
// for locating word/line boundaries during replay.
var textKeys = codeSet(
	evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4, evdev.KEY_5,
	evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9, evdev.KEY_0,
	evdev.KEY_MINUS, evdev.KEY_EQUAL,
	evdev.KEY_Q, evdev.KEY_W, evdev.KEY_E, evdev.KEY_R, evdev.KEY_T,
	evdev.KEY_Y, evdev.KEY_U, evdev.KEY_I, evdev.KEY_O, evdev.KEY_P,
	evdev.KEY_LEFTBRACE, evdev.KEY_RIGHTBRACE,
	evdev.KEY_A, evdev.KEY_S, evdev.KEY_D, evdev.KEY_F, evdev.KEY_G,
	evdev.KEY_H, evdev.KEY_J, evdev.KEY_K, evdev.KEY_L,
	evdev.KEY_SEMICOLON, evdev.KEY_APOSTROPHE, evdev.KEY_GRAVE,
	evdev.KEY_BACKSLASH, evdev.KEY_Z, evdev.KEY_X, evdev.KEY_C, evdev.KEY_V,
	evdev.KEY_B, evdev.KEY_N, evdev.KEY_M, evdev.KEY_COMMA, evdev.KEY_DOT,
	evdev.KEY_SLASH, evdev.KEY_KPASTERISK,
	evdev.KEY_SPACE, evdev.KEY_KP7, evdev.KEY_KP8, evdev.KEY_KP9,
	evdev.KEY_KPMINUS, evdev.KEY_KP4, evdev.KEY_KP5, evdev.KEY_KP6,
	evdev.KEY_KPPLUS, evdev.KEY_KP1, evdev.KEY_KP2, evdev.KEY_KP3,
	evdev.KEY_KP0, evdev.KEY_KPDOT, evdev.KEY_KPSLASH,
	evdev.KEY_ENTER, evdev.KEY_KPENTER,
)

// shiftKeys are the keys treated as Shift for trigger-pattern matching.
var shiftKeys = codeSet(evdev.KEY_LEFTSHIFT, evdev.KEY_RIGHTSHIFT)

// Backspace is the single key that deletes the most recent buffered key.
const Backspace = uint16(evdev.KEY_BACKSPACE)

// bufferKillers discard the whole buffer on press: mouse buttons, Tab,
// Ctrl/Alt, and cursor-navigation keys all invalidate "what was just typed".
var bufferKillers = codeSet(
	evdev.BTN_LEFT, evdev.BTN_RIGHT, evdev.BTN_MIDDLE,
	evdev.KEY_TAB, evdev.KEY_LEFTCTRL, evdev.KEY_LEFTALT,
	evdev.KEY_RIGHTCTRL, evdev.KEY_RIGHTALT,
	evdev.KEY_HOME, evdev.KEY_UP, evdev.KEY_PAGEUP,
	evdev.KEY_LEFT, evdev.KEY_RIGHT, evdev.KEY_END,
	evdev.KEY_DOWN, evdev.KEY_PAGEDOWN, evdev.KEY_INSERT,
)

// wordSeparators end a "word" during ConvertWord replay boundary search.
var wordSeparators = codeSet(evdev.KEY_SPACE, evdev.KEY_ENTER, evdev.KEY_KPENTER)

// lineSeparators end a "line" during ConvertAll replay boundary search.
var lineSeparators = codeSet(evdev.KEY_ENTER, evdev.KEY_KPENTER)

func codeSet(codes ...int) map[uint16]bool {
	set := make(map[uint16]bool, len(codes))
	for _, c := range codes {
		set[uint16(c)] = true
	}
	return set
}

// IsTextKey reports whether code is one of the recognized text keys.
func IsTextKey(code uint16) bool { return textKeys[code] }

// IsShiftKey reports whether code is Left or Right Shift.
func IsShiftKey(code uint16) bool { return shiftKeys[code] }

// IsBackspace reports whether code is the Backspace key.
func IsBackspace(code uint16) bool { return code == Backspace }

// IsBufferKiller reports whether code clears the buffer on press.
func IsBufferKiller(code uint16) bool { return bufferKillers[code] }

// IsWordSeparator reports whether code ends a word for ConvertWord replay.
func IsWordSeparator(code uint16) bool { return wordSeparators[code] }

// IsLineSeparator reports whether code ends a line for ConvertAll replay.
func IsLineSeparator(code uint16) bool { return lineSeparators[code] }
