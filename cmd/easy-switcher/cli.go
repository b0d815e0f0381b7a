// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/easy-switcher/easy-switcher/config"
	"github.com/easy-switcher/easy-switcher/internal/logger"
	"github.com/easy-switcher/easy-switcher/internal/orchestrator"
	"github.com/easy-switcher/easy-switcher/internal/wizard"
)

// options holds the parsed command-line flags.
type options struct {
	configure bool
	runNow    bool
	debug     bool
	configPath string
}

// parseOptions mirrors the original single-flag dispatch (-c/--configure,
// -r/--run, -d/--debug, -h/--help) while accepting the flags in either
// form through the standard flag package.
func parseOptions(args []string) (*options, error) {
	opts := &options{configPath: config.DefaultPath}

	fs := flag.NewFlagSet("easy-switcher", flag.ContinueOnError)
	var parseOutput strings.Builder
	fs.SetOutput(&parseOutput)

	fs.BoolVar(&opts.configure, "c", false, "configure Easy Switcher")
	fs.BoolVar(&opts.configure, "configure", false, "configure Easy Switcher")
	fs.BoolVar(&opts.runNow, "r", false, "run")
	fs.BoolVar(&opts.runNow, "run", false, "run")
	fs.BoolVar(&opts.debug, "d", false, "run in a debug mode")
	fs.BoolVar(&opts.debug, "debug", false, "run in a debug mode")
	fs.StringVar(&opts.configPath, "config", opts.configPath, "path to the configuration file")

	fs.Usage = func() {
		printUsage(os.Stderr)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, flag.ErrHelp
		}
		if parseOutput.Len() > 0 {
			fmt.Fprint(os.Stderr, parseOutput.String())
		}
		fs.Usage()
		return nil, err
	}

	return opts, nil
}

// run parses args and dispatches to the configuration wizard or the
// daemon, returning the process exit code.
func run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	switch {
	case opts.configure:
		if err := wizard.Run(opts.configPath, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Configuration failed, exiting: %v\n", err)
			return 1
		}
		return 0

	case opts.runNow || opts.debug:
		logLevel := logger.InfoLevel
		if opts.debug {
			logLevel = logger.DebugLevel
		}
		log := logger.NewDefaultLogger(logLevel)

		d := orchestrator.New(opts.configPath, opts.debug, log)
		if err := d.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Easy Switcher failed, exiting: %v\n", err)
			return 1
		}
		return 0

	default:
		printUsage(os.Stdout)
		return 0
	}
}
