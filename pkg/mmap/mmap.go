package mmap

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultDevice is the memory device used when none is given.
const DefaultDevice = "/dev/mem"

// Protection selects how a window is mapped. A window is either readable or
// writable, never both.
type Protection int

const (
	ProtRead Protection = iota
	ProtWrite
)

func (p Protection) String() string {
	switch p {
	case ProtRead:
		return "read"
	case ProtWrite:
		return "write"
	default:
		return "unknown"
	}
}

func (p Protection) prot() int {
	if p == ProtWrite {
		return unix.PROT_WRITE
	}
	return unix.PROT_READ
}

// a shared writable mapping needs a descriptor opened for writing
func (p Protection) openFlags() int {
	if p == ProtWrite {
		return os.O_RDWR | os.O_SYNC
	}
	return os.O_RDONLY | os.O_SYNC
}

// Window is one mapping of a device's address space, positioned on a
// requested address.
type Window struct {
	address uint64
	length  uint64
	prot    Protection
	layout  Layout
	region  []byte
}

// PageSize returns the platform page size.
func PageSize() uint64 {
	return uint64(unix.Getpagesize())
}

// Open maps length bytes of device starting at address with the given
// protection. The mapping starts at the page boundary below address.
func Open(device string, length uint64, prot Protection, address uint64) (*Window, error) {
	if length == 0 {
		return nil, errors.Wrapf(ErrMap, "zero-length window at 0x%x", address)
	}

	page := PageSize()
	if length > math.MaxInt-2*page {
		return nil, errors.Wrapf(ErrMap, "window 0x%x+0x%x too large", address, length)
	}

	layout := PlanWindow(address, length, page)
	if layout.Base > math.MaxInt64 || layout.MappedLength > math.MaxInt || !layout.Covers(length) {
		return nil, errors.Wrapf(ErrMap, "window 0x%x+0x%x out of range", address, length)
	}

	f, err := os.OpenFile(device, prot.openFlags(), 0)
	if err != nil {
		return nil, errors.Wrapf(ErrDeviceOpen, "%s: %v", device, err)
	}
	// the mapping outlives the descriptor
	defer f.Close()

	region, err := unix.Mmap(
		int(f.Fd()),
		int64(layout.Base),
		int(layout.MappedLength),
		prot.prot(),
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, errors.Wrapf(ErrMap, "%s at 0x%x (%d bytes): %v", device, layout.Base, layout.MappedLength, err)
	}

	return &Window{
		address: address,
		length:  length,
		prot:    prot,
		layout:  layout,
		region:  region,
	}, nil
}

// Close unmaps the window. Closing an already closed window is a no-op.
func (w *Window) Close() error {
	if w.region == nil {
		return nil
	}
	region := w.region
	w.region = nil
	if err := unix.Munmap(region); err != nil {
		return errors.Wrapf(ErrUnmap, "0x%x (%d bytes): %v", w.layout.Base, w.layout.MappedLength, err)
	}
	return nil
}

// Address returns the requested address.
func (w *Window) Address() uint64 { return w.address }

// Len returns the requested length.
func (w *Window) Len() uint64 { return w.length }

// MappedLen returns the size of the underlying mapping.
func (w *Window) MappedLen() uint64 { return w.layout.MappedLength }

// Offset returns the position of the requested address in the mapping.
func (w *Window) Offset() uint64 { return w.layout.Offset }

// Layout returns the page arithmetic the window was mapped with.
func (w *Window) Layout() Layout { return w.layout }

// Protection returns how the window was mapped.
func (w *Window) Protection() Protection { return w.prot }

// Bytes returns exactly the requested range.
func (w *Window) Bytes() ([]byte, error) {
	if w.region == nil {
		return nil, ErrWindowClosed
	}
	return w.region[w.layout.Offset : w.layout.Offset+w.length], nil
}

// Tail returns the mapping from the requested address to its end. It is at
// least Len bytes long and includes whatever slack the page rounding left
// after the requested range.
func (w *Window) Tail() ([]byte, error) {
	if w.region == nil {
		return nil, ErrWindowClosed
	}
	return w.region[w.layout.Offset:], nil
}
