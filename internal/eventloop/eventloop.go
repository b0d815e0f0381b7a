// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package eventloop implements a single-threaded, epoll-based readiness
// loop: callers register a file descriptor and a callback, and Run drives
// them until Stop is called or a timeout elapses.
package eventloop

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// maxEvents bounds how many ready fds epoll_wait returns per call.
const maxEvents = 512

// Handler is invoked when its registered fd becomes readable.
type Handler func(fd int)

// Loop is an epoll-based event loop. It is not safe for concurrent use;
// callers should only add/remove handlers and call Run from the same
// goroutine (Stop is the one exception, safe to call from any goroutine).
type Loop struct {
	epollFd int
	stopFd  int

	callbacks map[int]Handler
	stop      bool
}

// New creates the epoll instance and the eventfd used to interrupt Run.
func New() (*Loop, error) {
	epollFd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}

	stopFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epollFd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	l := &Loop{
		epollFd:   epollFd,
		stopFd:    stopFd,
		callbacks: make(map[int]Handler),
	}

	if err := unix.EpollCtl(epollFd, unix.EPOLL_CTL_ADD, stopFd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(stopFd),
	}); err != nil {
		unix.Close(stopFd)
		unix.Close(epollFd)
		return nil, fmt.Errorf("epoll_ctl(stop fd): %w", err)
	}

	return l, nil
}

// AddHandler registers fd with the loop; cb is invoked whenever fd becomes
// readable.
func (l *Loop) AddHandler(fd int, cb Handler) error {
	if err := unix.EpollCtl(l.epollFd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
	}); err != nil {
		return fmt.Errorf("epoll_ctl(add %d): %w", fd, err)
	}
	l.callbacks[fd] = cb
	return nil
}

// RemoveHandler unregisters fd from the loop. It's a no-op if fd was never
// registered.
func (l *Loop) RemoveHandler(fd int) error {
	delete(l.callbacks, fd)
	if err := unix.EpollCtl(l.epollFd, unix.EPOLL_CTL_DEL, fd, nil); err != nil && err != unix.ENOENT {
		return fmt.Errorf("epoll_ctl(del %d): %w", fd, err)
	}
	return nil
}

// Run drives the loop until Stop is called or timeoutMs elapses with no
// ready fds. Pass -1 to block indefinitely. Returns nil when stopped via
// Stop, and also nil on a plain timeout.
func (l *Loop) Run(timeoutMs int) error {
	events := make([]unix.EpollEvent, maxEvents)

	for !l.stop {
		n, err := unix.EpollWait(l.epollFd, events, timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}

		if n == 0 {
			if timeoutMs >= 0 {
				return nil
			}
			continue
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == l.stopFd {
				l.drainStop()
				l.stop = true
				continue
			}
			if cb, ok := l.callbacks[fd]; ok {
				cb(fd)
			}
		}
	}

	l.stop = false
	return nil
}

// Stop interrupts a running Run call via the eventfd. Safe to call from
// any goroutine, including from within a handler.
func (l *Loop) Stop() error {
	buf := [8]byte{0, 0, 0, 0, 0, 0, 0, 1}
	_, err := unix.Write(l.stopFd, buf[:])
	return err
}

func (l *Loop) drainStop() {
	var buf [8]byte
	_, _ = unix.Read(l.stopFd, buf[:])
}

// Close releases the epoll and eventfd descriptors.
func (l *Loop) Close() error {
	err1 := unix.Close(l.stopFd)
	err2 := unix.Close(l.epollFd)
	if err1 != nil {
		return err1
	}
	return err2
}
