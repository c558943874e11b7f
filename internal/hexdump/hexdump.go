// Package hexdump renders memory as hexadecimal rows of 16 bytes, in the
// manner of hexdump(1), with an optional ASCII gutter and elision of
// repeated rows.
package hexdump

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/fcurrie/memtool/pkg/mmap"
	"github.com/pkg/errors"
)

// RowSize is the number of bytes shown on one row.
const RowSize = 16

// Options selects the dump format.
type Options struct {
	// Canonical adds a |...| ASCII gutter after the hex columns.
	Canonical bool
	// ASCII prints the memory as a single line of text instead of rows.
	ASCII bool
	// Squeeze replaces runs of identical rows with a single '*' line.
	Squeeze bool
}

// Validate rejects option combinations that cannot be rendered.
func (o Options) Validate() error {
	if o.Canonical && o.ASCII {
		return errors.Wrap(mmap.ErrMutuallyExclusive, "ascii & canonical are mutually exclusive options")
	}
	return nil
}

// cursor is the position of the formatter in the dumped range.
type cursor struct {
	address   uint64
	pos       int
	remaining uint64
	first     bool
	inSqueeze bool
}

func (c *cursor) advance() {
	c.address += RowSize
	c.pos += RowSize
	if c.remaining < RowSize {
		c.remaining = 0
	} else {
		c.remaining -= RowSize
	}
	c.first = false
}

// Format writes length bytes of data, which start at address, to w. data may
// extend beyond length; the last row shows the bytes up to the next row
// boundary when they are present.
func Format(w io.Writer, data []byte, address, length uint64, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	if opts.ASCII {
		writeText(out, data, length)
		return out.Flush()
	}

	c := cursor{address: address, remaining: length, first: true}
	for c.remaining > 0 && c.pos < len(data) {
		row := data[c.pos:min(c.pos+RowSize, len(data))]

		// a row equal to the one before it is elided unless it is the last
		// row; a run of elided rows prints a single "*"
		if opts.Squeeze && !c.first && c.remaining >= 2*RowSize && bytes.Equal(row, data[c.pos-RowSize:c.pos]) {
			if !c.inSqueeze {
				out.WriteString("*\n")
				c.inSqueeze = true
			}
			c.advance()
			continue
		}
		c.inSqueeze = false

		writeRow(out, c.address, row, c.remaining, opts.Canonical)
		c.advance()
	}

	return out.Flush()
}

func writeRow(out *bufio.Writer, address uint64, row []byte, remaining uint64, canonical bool) {
	if address > 0xffffffff {
		fmt.Fprintf(out, "0x%016x  ", address)
	} else {
		fmt.Fprintf(out, "0x%08x  ", address)
	}

	for i := 0; i < RowSize; i++ {
		if i == RowSize/2 {
			out.WriteByte(' ')
		}
		if i < len(row) {
			fmt.Fprintf(out, "%02x ", row[i])
		} else {
			out.WriteString("   ")
		}
	}

	if canonical {
		out.WriteString(" |")
		for i := 0; i < len(row) && uint64(i) < remaining; i++ {
			out.WriteByte(graphic(row[i]))
		}
		out.WriteByte('|')
	}
	out.WriteByte('\n')
}

// writeText prints data as one line of text up to length bytes or the first
// NUL byte.
func writeText(out *bufio.Writer, data []byte, length uint64) {
	for i := 0; uint64(i) < length && i < len(data); i++ {
		c := data[i]
		if c == 0 {
			break
		}
		if c >= 0x20 && c < 0x7f {
			out.WriteByte(c)
		} else {
			out.WriteByte('.')
		}
	}
	out.WriteByte('\n')
}

func graphic(c byte) byte {
	if c > 0x20 && c < 0x7f {
		return c
	}
	return '.'
}
