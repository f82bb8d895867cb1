// Package logger is a standardized event logging framework for the shell.
// Events are written as newline delimited JSON so they're greppable and
// machine readable without a schema compiler.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogRecorder is a callback that stores entries in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction events for the shell.
type Logger struct {
	Record LogRecorder
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogRecorder creates a Logger that drops every entry.
func NewNopLogRecorder() *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			return nil
		},
	}
}

// Discard returns a session logger that drops every event.
func Discard() *SessionLogger {
	return NewNopLogRecorder().Sessionless()
}

func (l *Logger) recordEvent(sessionID string, event Event) error {
	le := &LogEntry{
		TimestampMicros: time.Now().UnixMicro(),
		SessionID:       sessionID,
	}
	event.attach(le)
	return l.Record(le)
}

// NewSession creates a logger with an attached randomly generated session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger with a blank session ID for events that don't
// belong to any session.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// Record writes one event to the log.
func (l *SessionLogger) Record(event Event) error {
	return l.recordEvent(l.sessionID, event)
}

// SessionID returns the identifier shared by this session's events.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// ReadJSONLinesLog parses a newline delimited JSON log, calling handler for
// every entry.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}
		handler(&logEntry)
	}
	return nil
}
