// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package notify

import "testing"

func TestNewFailsGracefullyWithoutSessionBus(t *testing.T) {
	n, err := New("easy-switcher")
	if err != nil {
		t.Skipf("no session bus available in this environment: %v", err)
	}
	defer n.Close()

	if err := n.DeviceRejected("Test Device", "blacklisted"); err != nil {
		t.Logf("DeviceRejected failed (expected without a notification daemon): %v", err)
	}
}
