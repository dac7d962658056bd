package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	resetMu   sync.Mutex
	resetHook func()

	// crashOut and exit are swapped in tests
	crashOut io.Writer = os.Stderr
	exit               = os.Exit
)

// SetResetHook registers the terminal restore run before a crash report
// The runner passes its screen finalizer; nil clears the hook
func SetResetHook(fn func()) {
	resetMu.Lock()
	resetHook = fn
	resetMu.Unlock()
}

// HandleCrash restores the terminal, prints the panic and stack, and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	resetMu.Lock()
	hook := resetHook
	resetHook = nil
	resetMu.Unlock()

	if hook != nil {
		func() {
			// A failing restore must not hide the original panic
			defer func() { _ = recover() }()
			hook()
		}()
	}

	fmt.Fprintf(crashOut, "\r\n\x1b[31mWA-TOR CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\r\n%s\r\n", debug.Stack())
	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so a crash restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
