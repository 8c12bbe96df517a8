// Package main provides the pinboard CLI: a local-first board of clients and
// content cards, optionally mirrored to a remote Postgres database.
package main

import (
	"errors"
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// userError marks failures caused by bad input rather than the system.
type userError struct {
	err error
}

func (e userError) Error() string { return e.err.Error() }
func (e userError) Unwrap() error { return e.err }

func userErrorf(format string, args ...any) error {
	return userError{err: fmt.Errorf(format, args...)}
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pinboard:", err)
		var ue userError
		if errors.As(err, &ue) {
			return exitUserError
		}
		return exitSysError
	}
	return exitSuccess
}
