package sys

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// EnvironFetcher is the read-only side of Env.
type EnvironFetcher interface {
	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}

// SplitEnvDef splits a "key=value" environment definition.
func SplitEnvDef(def string) (key, value string) {
	split := strings.SplitN(def, "=", 2)
	if len(split) > 1 {
		return split[0], split[1]
	}
	return split[0], ""
}

// CopyEnv copies all the environment variables from src to dst.
func CopyEnv(dst Env, src EnvironFetcher) error {
	for _, def := range src.Environ() {
		key, value := SplitEnvDef(def)
		if err := dst.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetenvDefault sets key to value only if key isn't already present,
// mirroring setenv(3) with overwrite=0.
func SetenvDefault(env Env, key, value string) error {
	if _, ok := env.LookupEnv(key); ok {
		return nil
	}
	return env.Setenv(key, value)
}

// NewMapEnv creates an empty environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromList creates an environment holding a copy of the given
// "key=value" definitions.
func NewMapEnvFromList(environ []string) *MapEnv {
	out := &MapEnv{}
	for _, def := range environ {
		key, value := SplitEnvDef(def)
		// Error is never set for MapEnv.
		_ = out.Setenv(key, value)
	}
	return out
}

// NewMapEnvFrom creates an environment holding a copy of the variables in
// the source environment.
func NewMapEnvFrom(src EnvironFetcher) *MapEnv {
	return NewMapEnvFromList(src.Environ())
}

// MapEnv implements an in-memory Env.
type MapEnv struct {
	mu  sync.RWMutex
	env map[string]string
}

var _ Env = (*MapEnv)(nil)

// UserHomeDir implements Env.UserHomeDir.
func (m *MapEnv) UserHomeDir() (string, error) {
	return m.Getenv("HOME"), nil
}

// Setenv implements Env.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// Unsetenv implements Env.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.env, key)
	return nil
}

// LookupEnv implements Env.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv implements Env.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// ExpandEnv implements Env.ExpandEnv.
func (m *MapEnv) ExpandEnv(s string) string {
	return os.Expand(s, m.Getenv)
}

// Environ implements Env.Environ. Entries come back sorted by name.
func (m *MapEnv) Environ() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}

// Clearenv implements Env.Clearenv.
func (m *MapEnv) Clearenv() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.env = make(map[string]string)
}

// ProcessEnv implements Env over the host process environment. All instances
// share the real environment of the running binary.
type ProcessEnv struct{}

var _ Env = (*ProcessEnv)(nil)

func (*ProcessEnv) UserHomeDir() (string, error)       { return os.UserHomeDir() }
func (*ProcessEnv) Unsetenv(key string) error          { return os.Unsetenv(key) }
func (*ProcessEnv) Setenv(key, value string) error     { return os.Setenv(key, value) }
func (*ProcessEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (*ProcessEnv) Getenv(key string) string           { return os.Getenv(key) }
func (*ProcessEnv) ExpandEnv(s string) string          { return os.ExpandEnv(s) }
func (*ProcessEnv) Environ() []string                  { return os.Environ() }
func (*ProcessEnv) Clearenv()                          { os.Clearenv() }
