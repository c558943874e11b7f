package memtool

import (
	"fmt"
	"io"
)

// Program is the name memtool reports itself as.
const Program = "memtool"

const memDevOption = " -m, --mem-dev\t\t memory device to use (default is /dev/mem)\n"
const helpOption = " -h, --help\t\t Display this help screen\n"
const baseNote = "Note: base is detected according to the prefix (no-prefix, 0x, and 0).\n"

func writeUsage(w io.Writer, c Command) {
	switch c {
	case CmdDump:
		fmt.Fprintf(w, "Usage:\n%s dump [options] <address> <length>\n\n", Program)
		fmt.Fprint(w, "Display memory content in hexadecimal format.\n")
		fmt.Fprint(w, "Options:\n")
		fmt.Fprint(w, memDevOption)
		fmt.Fprint(w, " -C, --canonical\t canonical hex+ASCII display\n")
		fmt.Fprint(w, " -a, --ascii\t\t ASCII display\n")
		fmt.Fprint(w, " -v, --no-squeezing\t output identical lines\n")
		fmt.Fprint(w, helpOption)
		fmt.Fprint(w, "Arguments:\n")
		fmt.Fprint(w, " <address> and <length> can be given in decimal, hexadecimal or octal format\n")
		fmt.Fprint(w, baseNote)
	case CmdDevMem:
		fmt.Fprintf(w, "Usage:\n%s devmem [options] <address> [type [data]]\n\n", Program)
		fmt.Fprint(w, "Read or write a single value in memory.\n")
		fmt.Fprint(w, "Options:\n")
		fmt.Fprint(w, memDevOption)
		fmt.Fprint(w, " -r, --read-back\t read back data after write\n")
		fmt.Fprint(w, " -f, --force-strict-alignment\t if address is not aligned, go back until it is aligned\n")
		fmt.Fprint(w, " -v, --verbose\t\t output addresses and written values\n")
		fmt.Fprint(w, helpOption)
		fmt.Fprint(w, "Arguments:\n")
		fmt.Fprint(w, " <address> can be given in decimal, hexadecimal or octal format\n")
		fmt.Fprint(w, " [type] access operation type: [b]yte, [h]alfword, [w]ord, [l]ong (default word)\n")
		fmt.Fprint(w, " [data] data to be written\n")
		fmt.Fprint(w, baseNote)
	case CmdLoad:
		fmt.Fprintf(w, "Usage:\n%s load [options] <address> <input_file>\n\n", Program)
		fmt.Fprint(w, "Load the content of a file into memory.\n")
		fmt.Fprint(w, "Options:\n")
		fmt.Fprint(w, memDevOption)
		fmt.Fprint(w, helpOption)
		fmt.Fprint(w, "Arguments:\n")
		fmt.Fprint(w, " <address> can be given in decimal, hexadecimal or octal format\n")
		fmt.Fprint(w, baseNote)
	case CmdStore:
		fmt.Fprintf(w, "Usage:\n%s store [options] <address> <length> <output_file>\n\n", Program)
		fmt.Fprint(w, "Store memory content in output file.\n")
		fmt.Fprint(w, "Options:\n")
		fmt.Fprint(w, memDevOption)
		fmt.Fprint(w, helpOption)
		fmt.Fprint(w, "Arguments:\n")
		fmt.Fprint(w, " <address> and <length> can be given in decimal, hexadecimal or octal format\n")
		fmt.Fprint(w, baseNote)
	case CmdCopy, CmdCompare:
		verb := "copy <size> bytes from <source address> to <target address>.\n"
		if c == CmdCompare {
			verb = "compare <size> bytes at <source address> with <target address>.\n"
		}
		fmt.Fprintf(w, "Usage:\n%s %s [options] <source address> <target address> <size>\n\n", Program, c)
		fmt.Fprint(w, verb)
		fmt.Fprint(w, "Options:\n")
		fmt.Fprint(w, memDevOption)
		fmt.Fprint(w, helpOption)
		fmt.Fprint(w, "Arguments:\n")
		fmt.Fprint(w, " <source address>, <target address> and <size> can be given in decimal,\n")
		fmt.Fprint(w, " hexadecimal or octal format\n")
		fmt.Fprint(w, baseNote)
	case CmdHelp:
		writeHelp(w)
	}
}

func writeHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n%s [cmd] ...\n\n", Program)
	fmt.Fprint(w, "Available commands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "\t%s\n", c)
	}
	fmt.Fprintf(w, "Use %s [cmd] --help for information about each command\n", Program)
}
