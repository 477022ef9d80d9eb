package mylog

import (
	"context"
	"os"
)

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Logger writes one line per call. The traceLabel identifies the entity the
// line is about (a session uid, a product uid) so lines can be correlated.
type Logger interface {
	Log(c context.Context, traceLabel string, severity Severity, format string, a ...any)
}

// New returns the logger matching the environment: structured json lines when
// running on Google Cloud, human-readable lines on stderr otherwise.
func New(componentName string) Logger {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudLogger(componentName)
	}
	return newStandardLogger(componentName)
}
