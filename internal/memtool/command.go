package memtool

import (
	"github.com/fcurrie/memtool/pkg/mmap"
	"github.com/pkg/errors"
)

// Command is one of the fixed set of memtool subcommands.
type Command int

const (
	CmdDump Command = iota
	CmdDevMem
	CmdLoad
	CmdStore
	CmdCopy
	CmdCompare
	CmdHelp
)

// commands is in the order help lists them.
var commands = []Command{CmdDump, CmdDevMem, CmdLoad, CmdStore, CmdCopy, CmdCompare, CmdHelp}

func (c Command) String() string {
	switch c {
	case CmdDump:
		return "dump"
	case CmdDevMem:
		return "devmem"
	case CmdLoad:
		return "load"
	case CmdStore:
		return "store"
	case CmdCopy:
		return "copy"
	case CmdCompare:
		return "compare"
	case CmdHelp:
		return "help"
	}
	return "unknown"
}

// LookupCommand returns the subcommand called name. Only exact names match.
func LookupCommand(name string) (Command, error) {
	for _, c := range commands {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, errors.Wrapf(mmap.ErrUnknownCommand, "subcommand %q is unknown, try \"%s help\"", name, Program)
}
