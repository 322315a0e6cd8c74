//go:build debug
// +build debug

package dbg

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type debugLoggerImpl struct {
	logger *charmlog.Logger
}

// init function for the debug build.
// This will be called when the 'debug' tag is active.
func init() {
	debugLog = &debugLoggerImpl{
		logger: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			Level:           charmlog.DebugLevel,
		}),
	}
}

// Printf implements the Printf method of the DebugLogger interface.
func (d *debugLoggerImpl) Printf(format string, a ...interface{}) {
	d.logger.Helper()
	d.logger.Debug(fmt.Sprintf(format, a...))
}

// Println implements the Println method of the DebugLogger interface.
func (d *debugLoggerImpl) Println(a ...interface{}) {
	d.logger.Helper()
	d.logger.Debug(fmt.Sprint(a...))
}
