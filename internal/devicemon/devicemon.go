// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package devicemon watches /dev/input/ for keyboards and mice being
// plugged in or removed, so the daemon can pick them up or drop them
// without a restart.
package devicemon

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"
)

const inputDeviceDir = "/dev/input/"

// Event reports one device appearing or disappearing.
type Event struct {
	Path      string
	Connected bool
}

// Monitor watches inputDeviceDir and queues Events for Fetch to drain.
// fsnotify delivers events on its own goroutine via a channel; Monitor
// bridges that into a pipe fd so the single-threaded event loop can
// still learn about new events through epoll, while all actual queue
// processing happens on the loop's goroutine via Fetch.
type Monitor struct {
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	events []Event

	wakeR, wakeW int
	forwardDone  chan struct{}
}

// New starts watching inputDeviceDir and enumerates the devices already
// present, queuing a Connected event for each.
func New() (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(inputDeviceDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDeviceDir, err)
	}

	fds := make([]int, 2)
	if err := unix.Pipe(fds); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("create wake pipe: %w", err)
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		watcher.Close()
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, fmt.Errorf("set wake pipe nonblocking: %w", err)
	}

	m := &Monitor{
		watcher:     watcher,
		wakeR:       fds[0],
		wakeW:       fds[1],
		forwardDone: make(chan struct{}),
	}
	go m.forward()

	entries, err := os.ReadDir(inputDeviceDir)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("read %s: %w", inputDeviceDir, err)
	}
	for _, e := range entries {
		if !isEventNode(e.Name()) {
			continue
		}
		m.events = append(m.events, Event{Path: inputDeviceDir + e.Name(), Connected: true})
	}

	return m, nil
}

func (m *Monitor) forward() {
	defer close(m.forwardDone)
	for {
		select {
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if !isEventNode(trimDir(ev.Name)) {
				continue
			}
			connected := ev.Op&(fsnotify.Create) != 0
			deleted := ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			if !connected && !deleted {
				continue
			}

			m.mu.Lock()
			m.events = append(m.events, Event{Path: ev.Name, Connected: connected})
			m.mu.Unlock()

			unix.Write(m.wakeW, []byte{1})
		case _, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func trimDir(path string) string {
	return strings.TrimPrefix(path, inputDeviceDir)
}

func isEventNode(name string) bool {
	return strings.HasPrefix(name, "event")
}

// Fd returns the file descriptor to register with the event loop: it
// becomes readable whenever Fetch has something new to return.
func (m *Monitor) Fd() int {
	return m.wakeR
}

// Fetch pops the next queued event and empties the wake pipe on every
// successful call, so Fd can stop being readable while events are still
// queued. Returns false when there's nothing queued.
func (m *Monitor) Fetch() (Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.events) == 0 {
		return Event{}, false
	}

	ev := m.events[0]
	m.events = m.events[1:]

	var buf [64]byte
	for {
		n, err := unix.Read(m.wakeR, buf[:])
		if n <= 0 || err != nil {
			break
		}
	}

	return ev, true
}

// Empty reports whether the queue has been fully drained.
func (m *Monitor) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events) == 0
}

// Close stops watching and releases the wake pipe. It waits for forward to
// observe the watcher shutting down before closing the pipe fds, so a
// write into wakeW can never land on an fd number a concurrent open has
// already reused.
func (m *Monitor) Close() error {
	err := m.watcher.Close()
	<-m.forwardDone
	unix.Close(m.wakeR)
	unix.Close(m.wakeW)
	return err
}
