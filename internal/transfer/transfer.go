// Package transfer moves byte ranges between mapped windows and files.
package transfer

import (
	"io"

	"github.com/fcurrie/memtool/pkg/mmap"
	"github.com/pkg/errors"
)

func view(w *mmap.Window, n uint64) ([]byte, error) {
	b, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(b)) {
		return nil, errors.Wrapf(mmap.ErrShortTransfer, "%d bytes requested from %d byte window at 0x%x", n, len(b), w.Address())
	}
	return b[:n], nil
}

// Copy copies n bytes from src to dst.
func Copy(dst, src *mmap.Window, n uint64) error {
	from, err := view(src, n)
	if err != nil {
		return err
	}
	to, err := view(dst, n)
	if err != nil {
		return err
	}
	if c := copy(to, from); uint64(c) != n {
		return errors.Wrapf(mmap.ErrShortTransfer, "copied %d of %d bytes", c, n)
	}
	return nil
}

// Store writes n bytes of src to w in a single write.
func Store(w io.Writer, src *mmap.Window, n uint64) error {
	b, err := view(src, n)
	if err != nil {
		return err
	}
	c, err := w.Write(b)
	if err != nil {
		return errors.Wrapf(mmap.ErrShortTransfer, "failed writing memory content to file: %v", err)
	}
	if uint64(c) != n {
		return errors.Wrapf(mmap.ErrShortTransfer, "wrote %d of %d bytes", c, n)
	}
	return nil
}

// Load fills n bytes of dst from r.
func Load(dst *mmap.Window, r io.Reader, n uint64) error {
	b, err := view(dst, n)
	if err != nil {
		return err
	}
	c, err := io.ReadFull(r, b)
	if err != nil {
		return errors.Wrapf(mmap.ErrShortTransfer, "failed reading file content to memory: read %d of %d bytes: %v", c, n, err)
	}
	return nil
}

// Mismatch is one byte that differs between two compared ranges.
type Mismatch struct {
	Offset uint64
	A, B   byte
}

// Compare returns every offset within n bytes where a and b differ.
func Compare(a, b *mmap.Window, n uint64) ([]Mismatch, error) {
	x, err := view(a, n)
	if err != nil {
		return nil, err
	}
	y, err := view(b, n)
	if err != nil {
		return nil, err
	}

	var diffs []Mismatch
	for i := range x {
		if x[i] != y[i] {
			diffs = append(diffs, Mismatch{Offset: uint64(i), A: x[i], B: y[i]})
		}
	}
	return diffs, nil
}
