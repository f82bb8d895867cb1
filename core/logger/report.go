package logger

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	LoginAttempt      LoginAttemptReport      `json:"login_attempt_report"`
	Command           CommandReport           `json:"command_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	SpawnError        SpawnErrorReport        `json:"spawn_error_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
	Session           SessionReport           `json:"session_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.Event().(type) {
	case *LoginAttempt:
		r.LoginAttempt.update(event)
	case *Command:
		r.Command.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *SpawnError:
		r.SpawnError.update(event)
	case *InvalidInvocation:
		r.InvalidInvocation.update(event)
	case *SessionStart:
		r.Session.start(event)
	case *SessionEnd:
		r.Session.end(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type LoginAttemptReport struct {
	// List of passwords and their counts.
	Passwords StrCounter `json:"passwords"`
	// List of usernames and their counts.
	Usernames StrCounter `json:"usernames"`
	// List of login attempt results and their counts.
	Results StrCounter `json:"results"`
}

func (r *LoginAttemptReport) update(la *LoginAttempt) {
	r.Passwords.Increment(la.Password)
	r.Usernames.Increment(la.Username)
	if la.Success {
		r.Results.Increment("accepted")
	} else {
		r.Results.Increment("denied")
	}
}

type CommandReport struct {
	// Name of the command.
	CommandNames StrCounter `json:"command_names"`
	// Exit statuses and their counts.
	ExitCodes StrCounter `json:"exit_codes"`
}

func (r *CommandReport) update(c *Command) {
	if len(c.Argv) > 0 {
		r.CommandNames.Increment(c.Argv[0])
	}
	r.ExitCodes.Increment(strconv.Itoa(c.ExitCode))
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(e *UnknownCommand) {
	r.CommandNames.Increment(e.Name)
}

type SpawnErrorReport struct {
	CommandNames StrCounter `json:"command_names"`
	Errors       StrCounter `json:"errors"`
}

func (r *SpawnErrorReport) update(e *SpawnError) {
	if len(e.Argv) > 0 {
		r.CommandNames.Increment(e.Argv[0])
	}
	r.Errors.Increment(e.Error)
}

type InvalidInvocationReport struct {
	CommandNames StrCounter `json:"command_counts"`
}

func (r *InvalidInvocationReport) update(e *InvalidInvocation) {
	if len(e.Argv) > 0 {
		r.CommandNames.Increment(e.Argv[0])
	}
}

type SessionReport struct {
	Count int `json:"count"`
	// Users that started sessions and their counts.
	Users StrCounter `json:"users"`
	// Exit statuses sessions ended with and their counts.
	ExitCodes StrCounter `json:"exit_codes"`
}

func (r *SessionReport) start(e *SessionStart) {
	r.Count++
	r.Users.Increment(e.User)
}

func (r *SessionReport) end(e *SessionEnd) {
	r.ExitCodes.Increment(strconv.Itoa(e.ExitCode))
}

// SessionHistoryReport groups events by the session that produced them.
type SessionHistoryReport struct {
	// Map of sessionID -> history
	sessions map[string]*SessionHistory
}

type SessionHistory struct {
	Login struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		RemoteAddr string `json:"remote_addr,omitempty"`
	} `json:"login"`
	LogEntries int `json:"log_entries"`
	ExitCode   int `json:"exit_code"`

	Commands []string `json:"commands"`
}

func (s *SessionHistory) Update(le *LogEntry) {
	s.LogEntries++

	switch event := le.Event().(type) {
	case *LoginAttempt:
		s.Login.Username = event.Username
		s.Login.Password = event.Password
		s.Login.RemoteAddr = event.RemoteAddr
	case *Command:
		s.Commands = append(s.Commands, strings.Join(event.Argv, " "))
	case *UnknownCommand:
		s.Commands = append(s.Commands, event.Name)
	case *SessionEnd:
		s.ExitCode = event.ExitCode
	}
}

func (s *SessionHistoryReport) init() {
	if s.sessions == nil {
		s.sessions = make(map[string]*SessionHistory)
	}
}

// MarshalJSON implemnts custom JSON marshaler.
func (s *SessionHistoryReport) MarshalJSON() ([]byte, error) {
	s.init()

	return json.Marshal(s.sessions)
}

func (s *SessionHistoryReport) Update(le *LogEntry) {
	s.init()

	sessionID := le.SessionID
	if sessionID == "" {
		return
	}
	history, ok := s.sessions[sessionID]
	if !ok {
		history = &SessionHistory{}
		s.sessions[sessionID] = history
	}

	history.Update(le)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(s.internal)
}
