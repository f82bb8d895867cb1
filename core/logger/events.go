package logger

import (
	"fmt"
	"strings"
)

// Event is one kind of log entry payload.
type Event interface {
	// attach stores the event on its envelope field.
	attach(le *LogEntry)

	// String renders the event as a single human readable line.
	String() string
}

// LogEntry is the envelope written to the event log. Exactly one payload
// field is set per entry.
type LogEntry struct {
	// TimestampMicros is the time the event was recorded, in microseconds
	// since the UNIX epoch.
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart      *SessionStart      `json:"session_start,omitempty"`
	SessionEnd        *SessionEnd        `json:"session_end,omitempty"`
	LoginAttempt      *LoginAttempt      `json:"login_attempt,omitempty"`
	Command           *Command           `json:"command,omitempty"`
	UnknownCommand    *UnknownCommand    `json:"unknown_command,omitempty"`
	SpawnError        *SpawnError        `json:"spawn_error,omitempty"`
	InvalidInvocation *InvalidInvocation `json:"invalid_invocation,omitempty"`
}

// Event returns the payload carried by the entry, nil if none is set.
func (le *LogEntry) Event() Event {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.SessionEnd != nil:
		return le.SessionEnd
	case le.LoginAttempt != nil:
		return le.LoginAttempt
	case le.Command != nil:
		return le.Command
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.SpawnError != nil:
		return le.SpawnError
	case le.InvalidInvocation != nil:
		return le.InvalidInvocation
	}
	return nil
}

// SessionStart marks the beginning of an interactive session.
type SessionStart struct {
	User       string `json:"user,omitempty"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}

func (e *SessionStart) attach(le *LogEntry) { le.SessionStart = e }

func (e *SessionStart) String() string {
	if e.RemoteAddr == "" {
		return fmt.Sprintf("session start user=%q", e.User)
	}
	return fmt.Sprintf("session start user=%q remote=%s", e.User, e.RemoteAddr)
}

// SessionEnd marks the end of an interactive session.
type SessionEnd struct {
	ExitCode int `json:"exit_code"`
}

func (e *SessionEnd) attach(le *LogEntry) { le.SessionEnd = e }

func (e *SessionEnd) String() string {
	return fmt.Sprintf("session end exit=%d", e.ExitCode)
}

// LoginAttempt records one authentication attempt against the SSH server.
type LoginAttempt struct {
	Username   string `json:"username"`
	Password   string `json:"password,omitempty"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	Success    bool   `json:"success"`
}

func (e *LoginAttempt) attach(le *LogEntry) { le.LoginAttempt = e }

func (e *LoginAttempt) String() string {
	verdict := "denied"
	if e.Success {
		verdict = "accepted"
	}
	return fmt.Sprintf("login %s user=%q remote=%s", verdict, e.Username, e.RemoteAddr)
}

// Command records one dispatched builtin invocation.
type Command struct {
	Argv     []string `json:"argv"`
	Forked   bool     `json:"forked"`
	ExitCode int      `json:"exit_code"`
}

func (e *Command) attach(le *LogEntry) { le.Command = e }

func (e *Command) String() string {
	mode := "inline"
	if e.Forked {
		mode = "forked"
	}
	return fmt.Sprintf("command %q %s exit=%d", strings.Join(e.Argv, " "), mode, e.ExitCode)
}

// UnknownCommand records a lookup that matched no builtin.
type UnknownCommand struct {
	Name string `json:"name"`
}

func (e *UnknownCommand) attach(le *LogEntry) { le.UnknownCommand = e }

func (e *UnknownCommand) String() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// SpawnError records a failure to launch a child process.
type SpawnError struct {
	Argv  []string `json:"argv"`
	Error string   `json:"error"`
}

func (e *SpawnError) attach(le *LogEntry) { le.SpawnError = e }

func (e *SpawnError) String() string {
	return fmt.Sprintf("spawn error %q: %s", strings.Join(e.Argv, " "), e.Error)
}

// InvalidInvocation records a builtin called with arguments it couldn't
// parse. These often point at missing flag support.
type InvalidInvocation struct {
	Argv  []string `json:"argv"`
	Error string   `json:"error"`
}

func (e *InvalidInvocation) attach(le *LogEntry) { le.InvalidInvocation = e }

func (e *InvalidInvocation) String() string {
	return fmt.Sprintf("invalid invocation %q: %s", strings.Join(e.Argv, " "), e.Error)
}
