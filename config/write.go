// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WizardResult is the raw material the interactive wizard collects, kept
// separate from Config since it hasn't been validated yet and layout
// switch key 1 may legitimately be absent (single-key shortcut).
type WizardResult struct {
	LayoutSwitch [2]uint16
	ConvertKey   uint16
	Delay        int
	Blacklist    []string
}

// WriteTemplate writes a fully-commented configuration file to path,
// creating its parent directory if necessary.
func WriteTemplate(path string, r WizardResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString("[Easy Switcher]\n")
	b.WriteString("# Easy Switcher configuration file.\n\n")

	b.WriteString("# Scancode of the key or key combination used to switch\n")
	b.WriteString("# the keyboard layout in your system.\n")
	b.WriteString("# Key combinations are supported; use '+' as a delimiter.\n")
	b.WriteString("# Run 'sudo showkey' to find your key scancodes.\n")
	b.WriteString("# Examples:\n")
	b.WriteString("# layout-switch=125\n")
	b.WriteString("# layout-switch=29+42\n\n")
	if r.LayoutSwitch[1] > 0 {
		fmt.Fprintf(&b, "layout-switch=%d+%d\n\n\n", r.LayoutSwitch[0], r.LayoutSwitch[1])
	} else {
		fmt.Fprintf(&b, "layout-switch=%d\n\n\n", r.LayoutSwitch[0])
	}

	b.WriteString("# Scancode of the key used to correct the entered text.\n")
	b.WriteString("# Key combinations are not supported.\n")
	b.WriteString("# Double SHIFT is used by default; set 0 to use it.\n")
	b.WriteString("# Run 'sudo showkey' to find your key scancodes.\n")
	b.WriteString("# Example:\n")
	b.WriteString("# convert-key=0\n\n")
	fmt.Fprintf(&b, "convert-key=%d\n\n\n", r.ConvertKey)

	b.WriteString("# Easy Switcher waits a small delay before sending keys.\n")
	b.WriteString("# This helps your system handle all events correctly.\n")
	b.WriteString("# Smaller delay makes switching faster, but may cause errors.\n")
	b.WriteString("# If you see wrong or mixed symbols, try to increase the delay.\n")
	b.WriteString("# Default delay value is 10 ms.\n")
	b.WriteString("# Example:\n")
	b.WriteString("# delay=10\n\n")
	fmt.Fprintf(&b, "delay=%d\n\n\n", r.Delay)

	b.WriteString("# If you get unwanted input from a specific device,\n")
	b.WriteString("# add its UID to the blacklist below.\n")
	b.WriteString("# Easy Switcher will ignore all blacklisted devices.\n")
	b.WriteString("# Use commas (,) to separate multiple UIDs.\n")
	b.WriteString("# Run 'sudo easy-switcher --debug' to list your devices' UIDs.\n")
	b.WriteString("# Examples:\n")
	b.WriteString("# blacklist=0000:0000:0000:0000:0000000000000000\n")
	b.WriteString("# blacklist=0000:0000:0000:0000:0000000000000000,0000:0000:0000:0000:0000000000000000\n\n")
	fmt.Fprintf(&b, "blacklist=%s\n\n\n", strings.Join(r.Blacklist, ","))

	_, err = f.WriteString(b.String())
	return err
}
