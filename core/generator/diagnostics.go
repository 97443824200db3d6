package generator

import (
	"fmt"

	"github.com/tristendillon/httpskin/core/logger"
)

const diagnosticTag = "[ httpskin ]: "

// Diagnostics receives progress notes and per-method failures of a run.
type Diagnostics interface {
	Log(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// LoggerDiagnostics prints through the shared logger. Notes are only
// printed when Debug is set; errors always are.
type LoggerDiagnostics struct {
	Debug bool
}

func (d LoggerDiagnostics) Log(format string, args ...interface{}) {
	if !d.Debug {
		return
	}
	logger.Info("%s%s", diagnosticTag, fmt.Sprintf(format, args...))
}

func (d LoggerDiagnostics) Error(format string, args ...interface{}) {
	logger.Error("%s%s", diagnosticTag, fmt.Sprintf(format, args...))
}

// RecordingDiagnostics keeps every message; used by tests and dry runs.
type RecordingDiagnostics struct {
	Notes  []string
	Errors []string
}

func (d *RecordingDiagnostics) Log(format string, args ...interface{}) {
	d.Notes = append(d.Notes, diagnosticTag+fmt.Sprintf(format, args...))
}

func (d *RecordingDiagnostics) Error(format string, args ...interface{}) {
	d.Errors = append(d.Errors, diagnosticTag+fmt.Sprintf(format, args...))
}
