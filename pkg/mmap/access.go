package mmap

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
)

// Width is the size in bytes of a scalar access.
type Width uint64

const (
	Byte     Width = 1
	HalfWord Width = 2
	Word     Width = 4
	LongWord Width = 8
)

// ParseWidth maps an access type name to its width. Only the first letter
// counts, so "b", "byte" and "B" are all Byte.
func ParseWidth(name string) (Width, error) {
	if name == "" {
		return 0, errors.Wrap(ErrUnsupportedWidth, "empty type")
	}
	switch strings.ToLower(name[:1]) {
	case "b":
		return Byte, nil
	case "h":
		return HalfWord, nil
	case "w":
		return Word, nil
	case "l":
		return LongWord, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedWidth, "%q", name)
}

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	return w == Byte || w == HalfWord || w == Word || w == LongWord
}

// Mask returns the value mask for w, all ones for LongWord.
func (w Width) Mask() uint64 {
	if w >= LongWord {
		return ^uint64(0)
	}
	return (uint64(1) << (8 * w)) - 1
}

// Align returns address rounded down to a multiple of w.
func (w Width) Align(address uint64) uint64 {
	return AlignDown(address, uint64(w))
}

func (w Width) String() string {
	switch w {
	case Byte:
		return "byte"
	case HalfWord:
		return "halfword"
	case Word:
		return "word"
	case LongWord:
		return "long"
	}
	return "invalid"
}

func (w *Window) scalar(width Width, want Protection) (unsafe.Pointer, error) {
	if !width.Valid() {
		return nil, errors.Wrapf(ErrUnsupportedWidth, "%d bytes", uint64(width))
	}
	if w.prot != want {
		return nil, errors.Wrapf(ErrProtection, "%s on %s window", want, w.prot)
	}
	b, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	if uint64(width) > uint64(len(b)) {
		return nil, errors.Errorf("%d byte access outside %d byte window", uint64(width), len(b))
	}
	return unsafe.Pointer(&b[0]), nil
}

// ReadScalar reads the unsigned value of the given width at the window's
// address.
func (w *Window) ReadScalar(width Width) (uint64, error) {
	p, err := w.scalar(width, ProtRead)
	if err != nil {
		return 0, err
	}
	return load(p, width) & width.Mask(), nil
}

// WriteScalar stores value, masked to the given width, at the window's
// address.
func (w *Window) WriteScalar(width Width, value uint64) error {
	p, err := w.scalar(width, ProtWrite)
	if err != nil {
		return err
	}
	store(p, width, value&width.Mask())
	return nil
}

// load and store are the only places device memory is touched through a
// typed pointer. They must stay out of line so each call performs exactly
// one access of the requested size.

//go:noinline
func load(p unsafe.Pointer, width Width) uint64 {
	switch width {
	case Byte:
		return uint64(*(*uint8)(p))
	case HalfWord:
		return uint64(*(*uint16)(p))
	case Word:
		return uint64(*(*uint32)(p))
	default:
		return *(*uint64)(p)
	}
}

//go:noinline
func store(p unsafe.Pointer, width Width, value uint64) {
	switch width {
	case Byte:
		*(*uint8)(p) = uint8(value)
	case HalfWord:
		*(*uint16)(p) = uint16(value)
	case Word:
		*(*uint32)(p) = uint32(value)
	default:
		*(*uint64)(p) = value
	}
}
