// Package debug provides conditional debug logging for unimatch.
//
// Debug logging is enabled by setting the UNIMATCH_DEBUG environment variable:
//
//	UNIMATCH_DEBUG=1 unimatch --file insights.json
//
// The TUI owns stderr while it runs, so UNIMATCH_DEBUG_FILE redirects the
// output to a file instead:
//
//	UNIMATCH_DEBUG=1 UNIMATCH_DEBUG_FILE=/tmp/unimatch.log unimatch
//
// When disabled (default), all debug functions are no-ops.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

const prefix = "[UNIMATCH_DEBUG] "

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("UNIMATCH_DEBUG") != "" {
		enabled = true
		logger = log.New(output(), prefix, log.Ltime|log.Lmicroseconds)
	}
}

// output picks UNIMATCH_DEBUG_FILE when it can be opened, stderr otherwise.
func output() io.Writer {
	path := os.Getenv("UNIMATCH_DEBUG_FILE")
	if path == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug: cannot open %s: %v\n", path, err)
		return os.Stderr
	}
	return f
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// Log writes a printf-style debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func fetch() {
//	    defer debug.LogEnterExit("fetch")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Printf("%s: %T = %+v", name, v, v)
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	if !enabled {
		return
	}
	logger.Printf("=== %s ===", name)
}
