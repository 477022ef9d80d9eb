package mylog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/MarcGrol/shopcart/lib/mycontext"
)

var disablePrefixOnce sync.Once

type structuredLogger struct {
	componentName string
}

func newGcloudLogger(componentName string) Logger {
	// Prefix text prevents the message from being parsed as JSON.
	// Cloud Logging adds its own timestamp.
	disablePrefixOnce.Do(func() {
		log.SetFlags(0)
	})

	return structuredLogger{
		componentName: componentName,
	}
}

func (l structuredLogger) Log(c context.Context, traceLabel string, severity Severity, format string, a ...any) {
	log.Println(entry{
		Component: l.componentName,
		Labels:    map[string]string{"session": traceLabel},
		Trace:     mycontext.TraceFromContext(c),
		Severity:  string(severity),
		Message:   l.componentName + ":" + fmt.Sprintf(format, a...),
	}.String())
}

type entry struct {
	Component string            `json:"component,omitempty"`
	Labels    map[string]string `json:"logging.googleapis.com/labels,omitempty"`
	Trace     string            `json:"logging.googleapis.com/trace,omitempty"`
	Severity  string            `json:"severity,omitempty"`
	Message   string            `json:"message"`
}

func (e entry) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		log.Printf("error marshalling log record: %v", err)
	}

	return string(out)
}
