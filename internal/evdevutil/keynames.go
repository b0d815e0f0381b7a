// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package evdevutil

import "strconv"

// keyNames maps evdev key codes to the short names used in log lines and
// buffer dumps. Not exhaustive; unknown codes fall back to their number.
var keyNames = map[uint16]string{
	1:   "esc",
	2:   "1",
	3:   "2",
	4:   "3",
	5:   "4",
	6:   "5",
	7:   "6",
	8:   "7",
	9:   "8",
	10:  "9",
	11:  "0",
	12:  "minus",
	13:  "equal",
	14:  "backspace",
	15:  "tab",
	16:  "q",
	17:  "w",
	18:  "e",
	19:  "r",
	20:  "t",
	21:  "y",
	22:  "u",
	23:  "i",
	24:  "o",
	25:  "p",
	26:  "leftbrace",
	27:  "rightbrace",
	28:  "enter",
	29:  "leftctrl",
	30:  "a",
	31:  "s",
	32:  "d",
	33:  "f",
	34:  "g",
	35:  "h",
	36:  "j",
	37:  "k",
	38:  "l",
	39:  "semicolon",
	40:  "apostrophe",
	41:  "grave",
	42:  "leftshift",
	43:  "backslash",
	44:  "z",
	45:  "x",
	46:  "c",
	47:  "v",
	48:  "b",
	49:  "n",
	50:  "m",
	51:  "comma",
	52:  "dot",
	53:  "slash",
	54:  "rightshift",
	55:  "kpasterisk",
	56:  "leftalt",
	57:  "space",
	58:  "capslock",
	59:  "f1",
	60:  "f2",
	61:  "f3",
	62:  "f4",
	63:  "f5",
	64:  "f6",
	65:  "f7",
	66:  "f8",
	67:  "f9",
	68:  "f10",
	69:  "numlock",
	70:  "scrolllock",
	71:  "kp7",
	72:  "kp8",
	73:  "kp9",
	74:  "kpminus",
	75:  "kp4",
	76:  "kp5",
	77:  "kp6",
	78:  "kpplus",
	79:  "kp1",
	80:  "kp2",
	81:  "kp3",
	82:  "kp0",
	83:  "kpdot",
	87:  "f11",
	88:  "f12",
	96:  "kpenter",
	97:  "rightctrl",
	98:  "kpslash",
	100: "rightalt",
	102: "home",
	103: "up",
	104: "pageup",
	105: "left",
	106: "right",
	107: "end",
	108: "down",
	109: "pagedown",
	110: "insert",
	111: "delete",
	125: "leftmeta",
	126: "rightmeta",
	272: "btnleft",
	273: "btnright",
	274: "btnmiddle",
}

// KeyName returns the short name for code, or its decimal number if unknown.
func KeyName(code uint16) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	return strconv.Itoa(int(code))
}
