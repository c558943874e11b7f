// Package numparse reads the numeric arguments of memtool commands.
// Addresses, lengths and values share one syntax: a 0x or 0X prefix selects
// hexadecimal, any other leading 0 selects octal, and everything else is
// decimal.
package numparse

import (
	"strconv"

	"github.com/fcurrie/memtool/pkg/mmap"
	"github.com/pkg/errors"
)

// Base returns the base selected by the prefix of text and the digits that
// follow the prefix.
func Base(text string) (int, string) {
	if len(text) > 1 && text[0] == '0' {
		if text[1] == 'x' || text[1] == 'X' {
			return 16, text[2:]
		}
		return 8, text[1:]
	}
	return 10, text
}

// Parse converts text to an unsigned 64-bit value. The whole token has to be
// a literal in the base its prefix selects.
func Parse(text string) (uint64, error) {
	base, digits := Base(text)
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, errors.Wrapf(mmap.ErrInvalidNumber, "couldn't parse number: %s", text)
	}
	return v, nil
}
