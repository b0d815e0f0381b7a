// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/easy-switcher/easy-switcher/internal/orchestrator"
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Easy Switcher - keyboard layout switcher v%s\n", orchestrator.Version)
	fmt.Fprintln(w, "Usage: easy-switcher [option]")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "   -c,   --configure   configure Easy Switcher")
	fmt.Fprintln(w, "   -r,   --run         run")
	fmt.Fprintln(w, "   -d,   --debug       run in a debug mode")
	fmt.Fprintln(w, "   -h,   --help        show this help")
	fmt.Fprintln(w, "         --config      path to the configuration file")
}
