// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Command easy-switcher is a background daemon that fixes text typed in
// the wrong keyboard layout: it watches for a trigger key, deletes the
// offending text, switches the layout, and retypes it.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}
