// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"path/filepath"
	"testing"
)

func TestWriteTemplateRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "easy-switcher.conf")

	err := WriteTemplate(path, WizardResult{
		LayoutSwitch: [2]uint16{29, 42},
		ConvertKey:   0,
		Delay:        10,
		Blacklist:    []string{"0000:0000:0000:0000:0000000000000000"},
	})
	if err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written template failed: %v", err)
	}

	if cfg.LayoutSwitch != [2]uint16{29, 42} {
		t.Errorf("LayoutSwitch = %v, want [29 42]", cfg.LayoutSwitch)
	}
	if len(cfg.Blacklist) != 1 {
		t.Errorf("Blacklist = %v, want 1 entry", cfg.Blacklist)
	}
}

func TestWriteTemplateSingleKeyLayoutSwitch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easy-switcher.conf")

	err := WriteTemplate(path, WizardResult{
		LayoutSwitch: [2]uint16{125, 0},
		Delay:        10,
	})
	if err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written template failed: %v", err)
	}
	if cfg.LayoutSwitch[1] != 0 {
		t.Errorf("LayoutSwitch[1] = %d, want 0", cfg.LayoutSwitch[1])
	}
}
