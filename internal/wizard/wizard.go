// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package wizard implements the interactive first-run configuration flow:
// it finds the keyboards on the system, captures the user's choice of
// trigger key and layout-switch shortcut, and writes a commented config
// file.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/easy-switcher/easy-switcher/config"
	"github.com/easy-switcher/easy-switcher/internal/devicemon"
	"github.com/easy-switcher/easy-switcher/internal/eventloop"
	"github.com/easy-switcher/easy-switcher/internal/evdevutil"
	"github.com/easy-switcher/easy-switcher/internal/inputreader"
)

// captureTimeout bounds how long the wizard waits for a key press before
// giving up.
const captureTimeout = 60000 // ms

// defaultDelayMs is used when no usable existing config is found.
const defaultDelayMs = 10

// Run drives the interactive configuration flow, reading from in and
// writing prompts to out, and writes the resulting config to path.
func Run(path string, in io.Reader, out io.Writer) error {
	delayMs, blacklist := readExistingDefaults(path, out)

	loop, err := eventloop.New()
	if err != nil {
		return fmt.Errorf("start event loop: %w", err)
	}
	defer loop.Close()

	mon, err := devicemon.New()
	if err != nil {
		return fmt.Errorf("scan keyboards: %w", err)
	}
	defer mon.Close()

	reader := inputreader.New()
	defer reader.Close()

	fmt.Fprint(out, "Scanning keyboards...")
	opened, err := openAllDevices(mon, reader, loop)
	if err != nil {
		fmt.Fprintln(out, "Error.")
		return err
	}
	if opened == 0 {
		fmt.Fprintln(out, "Error.")
		return fmt.Errorf("no keyboards opened for reading; are you root?")
	}
	fmt.Fprintln(out, "Done.")
	fmt.Fprintln(out)

	stdin := bufio.NewReader(in)

	convKey, err := captureConvertKey(stdin, out, reader, loop)
	if err != nil {
		return err
	}

	layoutSwitch, err := captureLayoutSwitch(out, reader, loop)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Saving configuration...")
	if err := config.WriteTemplate(path, config.WizardResult{
		LayoutSwitch: layoutSwitch,
		ConvertKey:   convKey,
		Delay:        delayMs,
		Blacklist:    blacklist,
	}); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	fmt.Fprintln(out, "Configuration is successfully saved.")
	fmt.Fprintf(out, "See %s to edit additional parameters.\n", path)
	return nil
}

// readExistingDefaults loads delay/blacklist from an existing config file
// to preserve them across reconfiguration; any failure just falls back to
// defaults, since the wizard's whole point is to produce a fresh file.
func readExistingDefaults(path string, out io.Writer) (int, []string) {
	fmt.Fprint(out, "Checking existing config...")

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(out, "Failed.")
		fmt.Fprintf(out, "%s is missing or corrupt. A new config file will be created.\n", path)
		return defaultDelayMs, nil
	}

	fmt.Fprintln(out, "Done.")
	return int(cfg.Delay / time.Millisecond), cfg.Blacklist
}

// openAllDevices drains the device monitor's startup enumeration,
// opening each candidate device and registering a no-op handler for it
// (the real handler is installed per-capture, see capture()).
func openAllDevices(mon *devicemon.Monitor, reader *inputreader.Reader, loop *eventloop.Loop) (int, error) {
	opened := 0
	for {
		ev, ok := mon.Fetch()
		if !ok {
			break
		}
		if !ev.Connected {
			continue
		}
		fd, err := reader.AddDevice(ev.Path)
		if err != nil || fd == -1 {
			continue
		}
		if err := loop.AddHandler(fd, func(int) {}); err != nil {
			reader.RemoveDevice(fd)
			continue
		}
		opened++
	}
	return opened, nil
}

// capture waits up to captureTimeout for key presses, collecting the code
// of each key pressed and stopping as soon as one is released: the first
// release ends the capture, so a combination is captured by holding
// several keys down together and releasing the last one.
func capture(reader *inputreader.Reader, loop *eventloop.Loop, fds []int) ([]uint16, error) {
	var codes []uint16

	for _, fd := range fds {
		fd := fd
		loop.RemoveHandler(fd) // replace the placeholder handler
		if err := loop.AddHandler(fd, func(int) {
			reader.Fetch(fd, func(code uint16, value int32) {
				if value != 0 { // pressed or repeating
					codes = append(codes, code)
				} else {
					loop.Stop()
				}
			})
		}); err != nil {
			return nil, fmt.Errorf("listen on fd %d: %w", fd, err)
		}
	}

	if err := loop.Run(captureTimeout); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	for _, fd := range fds {
		loop.RemoveHandler(fd)
	}

	return dedupeConsecutive(codes), nil
}

// dedupeConsecutive collapses auto-repeat runs of the same code, keeping
// only first, distinct presses in order.
func dedupeConsecutive(codes []uint16) []uint16 {
	var out []uint16
	for _, c := range codes {
		if len(out) == 0 || out[len(out)-1] != c {
			out = append(out, c)
		}
	}
	return out
}

// captureConvertKey prompts for the default-combo choice and, if
// declined, captures a single trigger key.
func captureConvertKey(in *bufio.Reader, out io.Writer, reader *inputreader.Reader, loop *eventloop.Loop) (uint16, error) {
	fmt.Fprint(out, "Please set the key combination you will use to correct text.\n"+
		"You can use the default combination or define your own.\n"+
		"The default combination is:\n"+
		" - double SHIFT to correct the last word;\n"+
		" - double SHIFT while holding the other SHIFT to correct the whole text.\n\n"+
		"Do you want to use the default combination? (y,n) ")

	for {
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return 0, fmt.Errorf("read choice: %w", err)
		}
		choice := trimEOL(line)

		if choice == "y" || choice == "Y" {
			return 0, nil
		}
		if choice == "n" || choice == "N" {
			break
		}
		fmt.Fprint(out, "Invalid input. Please enter 'y' or 'n': ")
	}

	fmt.Fprintln(out, "\nPress the key you want to use to correct text.")
	fmt.Fprintln(out, "Please DO NOT use letters, numbers, punctuation, cursor-movement keys, or modifier keys.")
	fmt.Fprintln(out, "Waiting for your input...")

	reader.Flush()
	codes, err := capture(reader, loop, reader.Fds())
	if err != nil {
		return 0, err
	}
	if len(codes) == 0 {
		return 0, fmt.Errorf("timeout reached")
	}

	fmt.Fprintf(out, "Captured key: %s\n\n", evdevutil.KeyName(codes[0]))
	return codes[0], nil
}

// captureLayoutSwitch prompts for and captures the system's existing
// layout-switch shortcut (one or two keys).
func captureLayoutSwitch(out io.Writer, reader *inputreader.Reader, loop *eventloop.Loop) ([2]uint16, error) {
	fmt.Fprintln(out, "Please specify the key that is currently used to switch the keyboard layout in your system.")
	fmt.Fprintln(out, "Press the key or key combination.")
	fmt.Fprintln(out, "Waiting for your input...")

	reader.Flush()
	codes, err := capture(reader, loop, reader.Fds())
	if err != nil {
		return [2]uint16{}, err
	}
	if len(codes) == 0 {
		return [2]uint16{}, fmt.Errorf("timeout reached")
	}

	var ls [2]uint16
	ls[0] = codes[0]
	if len(codes) == 1 {
		fmt.Fprintf(out, "Captured key: %s\n", evdevutil.KeyName(ls[0]))
	} else {
		ls[1] = codes[1]
		fmt.Fprintf(out, "Captured key combination: %s+%s\n", evdevutil.KeyName(ls[0]), evdevutil.KeyName(ls[1]))
	}
	return ls, nil
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
