package logs

import (
	"io"
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

func SetVerbose(v bool) { verbose.Store(v) }

func Verbose() bool { return verbose.Load() }

// SetOutput redirects log output. Full-screen front ends point it at a file
// so log lines do not land on top of the animation.
func SetOutput(w io.Writer) { log.SetOutput(w) }

// LogV prints a formatted log message only when verbose logging is enabled.
func LogV(format string, args ...interface{}) {
	if verbose.Load() {
		log.Printf(format, args...)
	}
}
