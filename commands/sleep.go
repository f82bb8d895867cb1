package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/keelsh/keelsh/core/sys"
)

// Sleep implements a POSIX sleep command with the GNU suffix extensions.
func Sleep(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "sleep NUMBER[SUFFIX]...",
		Short: "Pause for NUMBER seconds, or with a suffix of s, m, h or d.",
	}

	return cmd.Run(system, func() int {
		operands := cmd.Flags().Args()
		if len(operands) == 0 {
			fmt.Fprintln(system.Stderr(), "sleep: missing operand")
			return 1
		}

		var total time.Duration
		for _, operand := range operands {
			interval, err := parseSleepInterval(operand)
			if err != nil {
				fmt.Fprintf(system.Stderr(), "sleep: invalid time interval %q\n", operand)
				return 1
			}
			total += interval
		}

		time.Sleep(total)
		return 0
	})
}

// parseSleepInterval parses one sleep operand, a decimal number with an
// optional s, m, h or d suffix.
func parseSleepInterval(operand string) (time.Duration, error) {
	unit := time.Second
	if len(operand) > 0 {
		switch operand[len(operand)-1] {
		case 's':
			operand = operand[:len(operand)-1]
		case 'm':
			unit = time.Minute
			operand = operand[:len(operand)-1]
		case 'h':
			unit = time.Hour
			operand = operand[:len(operand)-1]
		case 'd':
			unit = 24 * time.Hour
			operand = operand[:len(operand)-1]
		}
	}

	value, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, errors.New("negative interval")
	}
	return time.Duration(value * float64(unit)), nil
}

var _ sys.ProcessFunc = Sleep

func init() {
	mustAddForkedCmd("sleep", Sleep)
}
