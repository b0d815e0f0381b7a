// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package wizard

import (
	"bufio"
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/easy-switcher/easy-switcher/config"
)

func TestDedupeConsecutive(t *testing.T) {
	tests := []struct {
		name string
		in   []uint16
		want []uint16
	}{
		{"empty", nil, nil},
		{"no repeats", []uint16{42, 29}, []uint16{42, 29}},
		{"repeat run", []uint16{42, 42, 42, 29, 29}, []uint16{42, 29}},
		{"repeat then new then repeat of first", []uint16{42, 42, 29, 42}, []uint16{42, 29, 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupeConsecutive(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dedupeConsecutive(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTrimEOL(t *testing.T) {
	tests := map[string]string{
		"y\n":   "y",
		"y\r\n": "y",
		"y":     "y",
		"\n":    "",
		"":      "",
	}
	for in, want := range tests {
		if got := trimEOL(in); got != want {
			t.Errorf("trimEOL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadExistingDefaultsFallsBackWhenMissing(t *testing.T) {
	var out bytes.Buffer
	delay, blacklist := readExistingDefaults("/does/not/exist.conf", &out)

	if delay != defaultDelayMs {
		t.Errorf("delay = %d, want %d", delay, defaultDelayMs)
	}
	if blacklist != nil {
		t.Errorf("blacklist = %v, want nil", blacklist)
	}
}

func TestReadExistingDefaultsUsesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/easy-switcher.conf"

	err := config.WriteTemplate(path, config.WizardResult{
		LayoutSwitch: [2]uint16{29, 42},
		Delay:        25,
		Blacklist:    []string{"0000:0000:0000:0000:0000000000000000"},
	})
	if err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}

	var out bytes.Buffer
	delay, blacklist := readExistingDefaults(path, &out)

	if delay != 25 {
		t.Errorf("delay = %d, want 25", delay)
	}
	if len(blacklist) != 1 {
		t.Errorf("blacklist = %v, want 1 entry", blacklist)
	}
}

func TestCaptureConvertKeyAcceptsDefaultChoice(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("y\n"))

	code, err := captureConvertKey(in, &out, nil, nil)
	if err != nil {
		t.Fatalf("captureConvertKey() error = %v", err)
	}
	if code != 0 {
		t.Errorf("code = %d, want 0 (default combination)", code)
	}
}

func TestCaptureConvertKeyReprompsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("maybe\ny\n"))

	code, err := captureConvertKey(in, &out, nil, nil)
	if err != nil {
		t.Fatalf("captureConvertKey() error = %v", err)
	}
	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
	if !bytes.Contains(out.Bytes(), []byte("Invalid input")) {
		t.Error("expected a reprompt message for invalid input")
	}
}
