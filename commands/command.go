// Package commands implements the builtin command table of the shell. Every
// builtin operates purely against sys.OS so it behaves identically inline,
// in a forked child, and under the test harness.
package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/keelsh/keelsh/core/shell"
	"github.com/keelsh/keelsh/core/sys"
	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// registry holds every builtin keyed by name, filled in by init functions.
var registry = make(map[string]shell.Command)

// mustAddCmd registers an inline builtin. It panics on duplicate names so a
// broken table is caught the first time the package loads.
func mustAddCmd(name string, proc sys.ProcessFunc) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("duplicate command %q", name))
	}
	registry[name] = shell.Command{Name: name, Main: proc}
}

// mustAddForkedCmd registers a builtin that runs in its own process.
func mustAddForkedCmd(name string, proc sys.ProcessFunc) {
	mustAddCmd(name, proc)
	cmd := registry[name]
	cmd.Forked = true
	registry[name] = cmd
}

// Builtins returns the dispatch table, ordered by name.
func Builtins() []shell.Command {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	table := make([]shell.Command, 0, len(names))
	for _, name := range names {
		table = append(table, registry[name])
	}
	return table
}

// Lookup resolves name against the registry. The forkexec entry point uses
// it to find the handler to run in the child process.
func Lookup(name string) (sys.ProcessFunc, bool) {
	cmd, ok := registry[name]
	if !ok {
		return nil, false
	}
	return cmd.Main, true
}

// SimpleCommand is a builtin with getopt flag parsing and uniform help
// output.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not. If this is non-nil
	// when Run() is called, then the default help flag isn't added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was successful call the callback.
func (s *SimpleCommand) Run(system sys.OS, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(system.Args(), nil)
	if err != nil {
		system.LogInvalidInvocation(err)
	}

	if err != nil && !s.NeverBail {
		fmt.Fprintf(system.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(system.Stdout())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(system.Stdout())
		return 0
	}

	return callback()
}

// BytesToHuman formats a byte count the way ls and friends do.
func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

// UidResolver maps uids to names using /etc/passwd, falling back to the
// numeric form.
func UidResolver(system sys.OS) func(int) string {
	return idResolver(system, "/etc/passwd", map[int]string{0: "root"})
}

// GidResolver maps gids to names using /etc/group.
func GidResolver(system sys.OS) func(int) string {
	return idResolver(system, "/etc/group", map[int]string{0: "root"})
}

// idResolver reads a colon separated database ("name:x:id:...") and returns
// a lookup function over it. Unreadable databases resolve numerically.
func idResolver(system sys.OS, dbPath string, seed map[int]string) func(int) string {
	if content, err := afero.ReadFile(system, dbPath); err == nil {
		for _, line := range strings.Split(string(content), "\n") {
			entry := strings.Split(line, ":")
			if len(entry) < 3 {
				continue
			}
			if id, err := strconv.Atoi(entry[2]); err == nil {
				seed[id] = entry[0]
			}
		}
	}

	return func(id int) string {
		if name, ok := seed[id]; ok {
			return name
		}
		return strconv.Itoa(id)
	}
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

// ColorPrinter colorizes output according to a --color flag and whether the
// output terminal is a PTY.
type ColorPrinter struct {
	value  *string
	system sys.OS
}

// Init sets up the flag and the OS used to determine color output.
func (c *ColorPrinter) Init(flags *getopt.Set, system sys.OS) {
	c.system = system
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.system.GetPTY().IsPTY
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
