// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package orchestrator wires the daemon's components together: it loads
// the configuration, opens the keyboards and the virtual output device,
// and drives the single-threaded event loop that converts key events into
// layout-switch replays.
package orchestrator

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/easy-switcher/easy-switcher/config"
	"github.com/easy-switcher/easy-switcher/internal/converter"
	"github.com/easy-switcher/easy-switcher/internal/devicemon"
	"github.com/easy-switcher/easy-switcher/internal/eventloop"
	"github.com/easy-switcher/easy-switcher/internal/evdevutil"
	"github.com/easy-switcher/easy-switcher/internal/inputreader"
	"github.com/easy-switcher/easy-switcher/internal/logger"
	"github.com/easy-switcher/easy-switcher/internal/notify"
	"github.com/easy-switcher/easy-switcher/internal/vkeyboard"
)

// Version is reported on startup and by --help.
const Version = "0.5"

// Daemon wires together every running component and drives the event
// loop until a shutdown signal or a fatal error stops it.
type Daemon struct {
	ConfigPath string
	Debug      bool
	Log        logger.Logger

	loop   *eventloop.Loop
	mon    *devicemon.Monitor
	reader *inputreader.Reader
	vk     *vkeyboard.Keyboard
	conv   *converter.Converter
	notify *notify.Notifier
}

// New returns a Daemon ready to Run, reading its config from configPath.
func New(configPath string, debug bool, log logger.Logger) *Daemon {
	return &Daemon{
		ConfigPath: configPath,
		Debug:      debug,
		Log:        log,
		conv:       converter.New(),
	}
}

// Run initializes every component, installs signal handlers and drives
// the event loop until a shutdown signal arrives. It returns an error
// describing the first initialization failure, if any.
func (d *Daemon) Run() error {
	d.Log.Info("Easy Switcher v%s started", Version)

	if err := d.initComponents(); err != nil {
		return err
	}
	defer d.close()

	if err := d.loadConfig(); err != nil {
		return err
	}

	// Open the devices found at startup only once the configured
	// blacklist is in place.
	d.handleDeviceEvents(d.mon.Fd())

	d.installSignalHandlers()

	d.Log.Info("Entering the event loop.")
	return d.loop.Run(-1)
}

// initComponents creates the event loop, device monitor, input reader and
// virtual keyboard, wiring each one's readiness fd into the loop.
func (d *Daemon) initComponents() error {
	loop, err := eventloop.New()
	if err != nil {
		return fmt.Errorf("init event loop: %w", err)
	}
	d.loop = loop
	d.Log.Debug("Event loop initialized.")

	mon, err := devicemon.New()
	if err != nil {
		return fmt.Errorf("init device monitor: %w", err)
	}
	d.mon = mon
	if err := d.loop.AddHandler(d.mon.Fd(), d.handleDeviceEvents); err != nil {
		return fmt.Errorf("register device monitor: %w", err)
	}
	d.Log.Debug("Device manager initialized.")

	d.reader = inputreader.New()
	d.Log.Debug("Input reader initialized.")

	vk, err := vkeyboard.New(0) // delay is set once the config is loaded
	if err != nil {
		return fmt.Errorf("init virtual keyboard: %w", err)
	}
	d.vk = vk
	d.reader.AddToBlacklist(vk.UID())
	d.Log.Debug("Virtual keyboard created.")

	if n, err := notify.New("easy-switcher"); err == nil {
		d.notify = n
	} else {
		d.Log.Debug("Desktop notifications unavailable: %v", err)
	}

	return nil
}

// loadConfig reads the config file and applies it to the converter and
// virtual keyboard, blacklisting every configured device UID.
func (d *Daemon) loadConfig() error {
	d.Log.Debug("Loading configuration...")

	cfg, err := config.Load(d.ConfigPath)
	if err != nil {
		return err
	}

	d.conv.LSKeys = cfg.LayoutSwitch
	d.conv.ConvKey = int32(cfg.ConvertKey)
	d.vk.Delay = cfg.Delay

	for _, uid := range cfg.Blacklist {
		d.reader.AddToBlacklist(uid)
		d.Log.Debug("Added to blacklist: %s", uid)
	}

	d.Log.Debug("Configuration file loaded.")
	return nil
}

// installSignalHandlers stops the event loop on any of the signals the
// original daemon treats as a graceful shutdown request.
func (d *Daemon) installSignalHandlers() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		d.Log.Info("Got exit signal (%s). Bye.", sig)
		d.loop.Stop()
	}()
}

// handleDeviceEvents drains the device monitor's queue, opening newly
// connected devices and registering them with the event loop, and
// dropping disconnected ones.
func (d *Daemon) handleDeviceEvents(int) {
	for {
		ev, ok := d.mon.Fetch()
		if !ok {
			return
		}

		if ev.Connected {
			d.openDevice(ev.Path)
		} else {
			d.closeDevice(ev.Path)
		}
	}
}

func (d *Daemon) openDevice(path string) {
	fd, err := d.reader.AddDevice(path)
	if err != nil {
		if d.Debug {
			d.Log.Debug("Skipped device %s: %v", path, err)
		}
		return
	}
	if fd == -1 {
		if d.Debug && d.notify != nil {
			d.notify.DeviceRejected(path, "not a keyboard/mouse, or blacklisted")
		}
		return
	}

	if err := d.loop.AddHandler(fd, d.handleInputEvents); err != nil {
		d.reader.RemoveDevice(fd)
		d.Log.Warning("Failed to register device %s: %v", path, err)
		return
	}

	name := d.reader.DeviceName(fd)
	uid := d.reader.DeviceUID(fd)
	if d.Debug {
		d.Log.Debug("Added device %s: %s, UID=%s", path, name, uid)
	}
}

func (d *Daemon) closeDevice(path string) {
	fd := d.reader.FdForPath(path)
	if fd == -1 {
		return
	}
	d.loop.RemoveHandler(fd)
	d.reader.RemoveDevice(fd)
	if d.Debug {
		d.Log.Debug("Removed device: %s", path)
	}
}

// handleInputEvents feeds every event read from fd into the converter,
// emitting a replay through the virtual keyboard whenever a trigger
// matches.
func (d *Daemon) handleInputEvents(fd int) {
	d.reader.Fetch(fd, func(code uint16, value int32) {
		d.conv.Push(code, value)

		if d.Debug {
			d.Log.Debug("Input event: %s %s from: %s",
				evdevutil.KeyName(code), keyStateName(value), d.reader.DeviceName(fd))
			d.Log.Debug("Buffer: %s", d.conv.BufferDump())
		}

		action := d.conv.Process()
		if action == converter.None {
			return
		}

		for _, ev := range d.conv.Convert(action) {
			if err := d.vk.EmitKey(ev.Code, ev.Value); err != nil {
				d.Log.Warning("Failed to emit key: %v", err)
				continue
			}
			if d.Debug {
				d.Log.Debug("Output: %s %s", evdevutil.KeyName(ev.Code), keyStateName(ev.Value))
			}
		}

		d.reader.Flush()
		if d.Debug {
			d.Log.Debug("Buffer: %s", d.conv.BufferDump())
		}
	})
}

func keyStateName(value int32) string {
	switch value {
	case converter.Down:
		return "DOWN"
	case converter.Up:
		return "UP"
	case converter.Repeat:
		return "REPEAT"
	default:
		return "UNKNOWN"
	}
}

func (d *Daemon) close() {
	if d.notify != nil {
		d.notify.Close()
	}
	if d.vk != nil {
		d.vk.Close()
	}
	if d.reader != nil {
		d.reader.Close()
	}
	if d.mon != nil {
		d.mon.Close()
	}
	if d.loop != nil {
		d.loop.Close()
	}
}
