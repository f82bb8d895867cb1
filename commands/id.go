package commands

import (
	"fmt"
	"strings"

	"github.com/keelsh/keelsh/core/sys"
)

// Id implements the POSIX id command.
func Id(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "id [OPTION]... [USER]",
		Short: "Print user and group information.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(system, func() int {
		uidName := UidResolver(system)
		gidName := GidResolver(system)

		uid := system.Getuid()
		gid := system.Getgid()

		groupIDs := system.Getgroups()
		if len(groupIDs) == 0 {
			groupIDs = []int{gid}
		}
		groups := make([]string, 0, len(groupIDs))
		for _, g := range groupIDs {
			groups = append(groups, fmt.Sprintf("%d(%s)", g, gidName(g)))
		}

		fmt.Fprintf(system.Stdout(), "uid=%d(%s) gid=%d(%s) groups=%s\n",
			uid, uidName(uid), gid, gidName(gid), strings.Join(groups, ","))
		return 0
	})
}

var _ sys.ProcessFunc = Id

func init() {
	mustAddForkedCmd("id", Id)
}
