// Package notify defines the user-notification contract the import pipeline
// reports through.
package notify

import "github.com/rs/zerolog"

// Severity classifies a notification.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notifier receives user-facing messages from the pipeline.
type Notifier interface {
	Signal(message string, severity Severity)
}

// Func adapts a plain function to Notifier.
type Func func(message string, severity Severity)

func (f Func) Signal(message string, severity Severity) { f(message, severity) }

// Discard drops every notification.
var Discard = Func(func(string, Severity) {})

// Multi fans a notification out to every notifier.
func Multi(ns ...Notifier) Notifier {
	return Func(func(message string, severity Severity) {
		for _, n := range ns {
			if n != nil {
				n.Signal(message, severity)
			}
		}
	})
}

// LogNotifier writes notifications to a structured log.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Signal(message string, severity Severity) {
	ev := n.Log.Info()
	switch severity {
	case Warning:
		ev = n.Log.Warn()
	case Error:
		ev = n.Log.Error()
	}
	ev.Str("severity", string(severity)).Msg(message)
}
