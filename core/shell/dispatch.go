package shell

import (
	"fmt"

	"github.com/keelsh/keelsh/core/logger"
	"github.com/keelsh/keelsh/core/sys"
)

// NoStatus marks an iteration that produced no exit status: an empty line,
// an unknown command, or a spawn failure.
const NoStatus = -1

// Command binds a name to a builtin entry point.
type Command struct {
	// Name is the word the command is dispatched by.
	Name string

	// Main is the builtin entry point.
	Main sys.ProcessFunc

	// Forked runs the command in its own process so it cannot corrupt the
	// interpreter. Commands that must mutate interpreter state run inline.
	Forked bool
}

// Dispatcher resolves command names against a fixed table and runs the
// matching builtin.
type Dispatcher struct {
	table []Command
}

// NewDispatcher builds a dispatcher over table. It panics if two entries
// share a name, resolution is first match and a shadowed entry is a bug.
func NewDispatcher(table []Command) *Dispatcher {
	seen := make(map[string]bool, len(table))
	for _, cmd := range table {
		if seen[cmd.Name] {
			panic(fmt.Sprintf("shell: duplicate command %q", cmd.Name))
		}
		seen[cmd.Name] = true
	}
	return &Dispatcher{table: table}
}

// Lookup returns the table entry named name. Names are case sensitive.
func (d *Dispatcher) Lookup(name string) (Command, bool) {
	for _, cmd := range d.table {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}

// Commands returns the dispatch table in registration order.
func (d *Dispatcher) Commands() []Command {
	return append([]Command(nil), d.table...)
}

// Execute runs argv to completion and returns its exit status. An empty argv
// is a no-op and an unknown name reports itself on stdout; both yield
// NoStatus without spawning anything.
func (d *Dispatcher) Execute(system sys.OS, argv []string) int {
	if len(argv) == 0 {
		return NoStatus
	}

	cmd, ok := d.Lookup(argv[0])
	if !ok {
		fmt.Fprintf(system.Stdout(), "%s: command not found\n", argv[0])
		system.Events().Record(&logger.UnknownCommand{Name: argv[0]})
		return NoStatus
	}

	var status int
	if cmd.Forked {
		status = RunForked(system, argv)
	} else {
		status = cmd.Main(sys.WithArgs(system, argv))
	}
	system.Events().Record(&logger.Command{Argv: argv, Forked: cmd.Forked, ExitCode: status})
	return status
}
