// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// section is the one INI section this daemon's config file uses.
const section = "Easy Switcher"

// DefaultPath is where the daemon looks for its configuration unless
// told otherwise.
const DefaultPath = "/etc/easy-switcher/default.conf"

// Config holds the daemon's runtime configuration, already parsed and
// validated from its INI file.
type Config struct {
	// LayoutSwitch holds the one or two key codes that make up the
	// system's layout-switch shortcut. LayoutSwitch[1] is 0 when the
	// shortcut is a single key.
	LayoutSwitch [2]uint16

	// ConvertKey is the user-configured trigger key; 0 selects the
	// default double-shift trigger instead.
	ConvertKey uint16

	// Delay is how long to wait after emitting each replayed key.
	Delay time.Duration

	// Blacklist holds device UIDs the daemon must never listen to.
	Blacklist []string
}

// Load reads and validates the configuration file at path. Every key
// required by this daemon (layout-switch, convert-key, delay) must be
// present and well-formed, or Load returns an error describing exactly
// which key and why: a daemon that silently falls back to defaults for a
// malformed required key would be actively misleading about what it's
// about to do to the user's keystrokes.
func Load(path string) (*Config, error) {
	s, err := parseStore(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	layoutSwitch, ok := s.getString(section, "layout-switch")
	if !ok {
		return nil, fmt.Errorf("%s: missing required key 'layout-switch'", path)
	}
	if err := cfg.parseLayoutSwitch(layoutSwitch); err != nil {
		return nil, fmt.Errorf("%s: invalid 'layout-switch' value %q: %w", path, layoutSwitch, err)
	}

	convKey, ok := s.getInt(section, "convert-key")
	if !ok {
		return nil, fmt.Errorf("%s: missing or invalid 'convert-key' value", path)
	}
	if convKey < 0 || convKey > 255 {
		return nil, fmt.Errorf("%s: 'convert-key' is out of valid range (0-255): %d", path, convKey)
	}
	cfg.ConvertKey = uint16(convKey)

	delayMs, ok := s.getInt(section, "delay")
	if !ok {
		return nil, fmt.Errorf("%s: missing or invalid 'delay' value", path)
	}
	if delayMs <= 0 {
		return nil, fmt.Errorf("%s: 'delay' must be positive, got %d", path, delayMs)
	}
	cfg.Delay = time.Duration(delayMs) * time.Millisecond

	// blacklist is optional: an empty or absent value just means no
	// devices are pre-excluded.
	blacklist, _ := s.getString(section, "blacklist")
	cfg.Blacklist = parseBlacklist(blacklist)

	return cfg, nil
}

// parseLayoutSwitch accepts either "CODE" or "CODE1+CODE2", matching the
// shape sscanf("%d+%d", ...) accepts: a lone code, or two codes joined
// by a plus sign. Both codes must be valid evdev key codes (0-255).
func (c *Config) parseLayoutSwitch(raw string) error {
	parts := strings.SplitN(raw, "+", 2)

	first, err := parseKeyCode(parts[0])
	if err != nil {
		return err
	}
	c.LayoutSwitch[0] = first

	if len(parts) == 2 {
		second, err := parseKeyCode(parts[1])
		if err != nil {
			return err
		}
		c.LayoutSwitch[1] = second
	}

	return nil
}

func parseKeyCode(raw string) (uint16, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a key code", raw)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("key code %d out of valid range (0..255)", n)
	}
	return uint16(n), nil
}

// parseBlacklist splits a comma-separated UID list, trims whitespace, and
// drops any entry that doesn't look like a device UID (36 characters,
// exactly 4 colons) rather than rejecting the whole file over one typo.
func parseBlacklist(raw string) []string {
	if raw == "" {
		return nil
	}

	var uids []string
	for _, part := range strings.Split(raw, ",") {
		uid := strings.TrimSpace(part)
		if len(uid) == 36 && strings.Count(uid, ":") == 4 {
			uids = append(uids, uid)
		}
	}
	return uids
}
