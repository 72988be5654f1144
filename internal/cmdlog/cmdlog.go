// Package cmdlog provides the shared slog setup for this module's command-line tools. The
// attribute/record/value layers never log; only the cmd/ boundary does, and only through this
// package, so both tools report progress the same way.
package cmdlog

import (
	"io"
	"log/slog"
	"os"
)

// L is the global logger, discarding all output until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init configures L to write text-formatted log lines to stderr. verbose selects LevelDebug;
// otherwise LevelInfo.
func Init(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
