// Package main is the entry point for the game portal server.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
//  1. Read configuration (defaults, .env, environment, flags)
//  2. Create dependencies (logger, database store)
//  3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
//
// COMMANDS:
//
//	portal            same as "portal serve"
//	portal serve      migrate, seed, and serve HTTP
//	portal migrate    apply pending migrations and exit
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
