// Package memtool implements the memtool subcommands: dumping, peeking and
// poking, loading, storing, copying and comparing device memory through
// mapped windows.
package memtool

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fcurrie/memtool/internal/config"
	"github.com/fcurrie/memtool/internal/hexdump"
	"github.com/fcurrie/memtool/internal/transfer"
	"github.com/fcurrie/memtool/pkg/mmap"
	"github.com/pkg/errors"
)

// ErrRegionsDiffer is returned by compare when the two ranges differ.
var ErrRegionsDiffer = errors.New("regions differ")

// Opener maps a window of a memory device.
type Opener func(device string, length uint64, prot mmap.Protection, address uint64) (*mmap.Window, error)

// Tool runs one memtool subcommand.
type Tool struct {
	Stdout io.Writer
	Stderr io.Writer
	Config config.Config
	Open   Opener
}

// New creates a tool writing to the process's standard streams.
func New(cfg *config.Config) *Tool {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Tool{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: *cfg,
		Open:   mmap.Open,
	}
}

// Run executes the subcommand named by args[0] with the remaining
// arguments. Every window opened by the command is released before Run
// returns.
func (t *Tool) Run(args []string) error {
	if len(args) == 0 {
		writeHelp(t.Stderr)
		return usageError("no subcommand given")
	}

	c, err := LookupCommand(args[0])
	if err != nil {
		return err
	}

	err = t.run(c, args[1:])
	switch {
	case errors.Is(err, flag.ErrHelp):
		writeUsage(t.Stdout, c)
		return nil
	case errors.Is(err, mmap.ErrUsage), errors.Is(err, mmap.ErrInvalidNumber):
		writeUsage(t.Stderr, c)
	}
	return err
}

func (t *Tool) run(c Command, args []string) error {
	switch c {
	case CmdDump:
		opts, err := t.parseDump(args)
		if err != nil {
			return err
		}
		return t.Dump(opts)
	case CmdDevMem:
		opts, err := t.parseDevMem(args)
		if err != nil {
			return err
		}
		return t.DevMem(opts)
	case CmdLoad:
		opts, err := t.parseLoad(args)
		if err != nil {
			return err
		}
		return t.Load(opts)
	case CmdStore:
		opts, err := t.parseStore(args)
		if err != nil {
			return err
		}
		return t.Store(opts)
	case CmdCopy:
		opts, err := t.parseRange(c, args)
		if err != nil {
			return err
		}
		return t.Copy(opts)
	case CmdCompare:
		opts, err := t.parseRange(c, args)
		if err != nil {
			return err
		}
		return t.Compare(opts)
	case CmdHelp:
		writeHelp(t.Stdout)
		return nil
	}
	return errors.Wrapf(mmap.ErrUnknownCommand, "%d", int(c))
}

// open maps a window and logs it when verbose.
func (t *Tool) open(device string, length uint64, prot mmap.Protection, address uint64) (*mmap.Window, error) {
	w, err := t.Open(device, length, prot, address)
	if err != nil {
		return nil, err
	}
	if t.Config.Verbose {
		l := w.Layout()
		log.Printf("Mapped %s 0x%x+0x%x for %s (window 0x%x, %d bytes)", device, address, length, prot, l.Base, l.MappedLength)
	}
	return w, nil
}

// release unmaps w. An unmap failure does not fail the command.
func (t *Tool) release(w *mmap.Window) {
	if err := w.Close(); err != nil {
		log.Printf("Warning: %v", err)
	}
}

// Dump prints a hex dump of the requested range.
func (t *Tool) Dump(opts DumpOptions) error {
	if err := opts.Format.Validate(); err != nil {
		return err
	}

	// whole rows are rendered, so the window covers the last row's slack
	length := mmap.AlignUp(opts.Length, hexdump.RowSize)
	if length < opts.Length {
		return errors.Wrapf(mmap.ErrMap, "dump of 0x%x bytes too large", opts.Length)
	}
	w, err := t.open(opts.Device, length, mmap.ProtRead, opts.Address)
	if err != nil {
		return err
	}
	defer t.release(w)

	data, err := w.Tail()
	if err != nil {
		return err
	}
	return hexdump.Format(t.Stdout, data, opts.Address, opts.Length, opts.Format)
}

// DevMem reads or writes a single value.
func (t *Tool) DevMem(opts DevMemOptions) error {
	address := opts.EffectiveAddress()

	if opts.Write {
		if err := t.poke(opts.Device, address, opts.Width, opts.Value); err != nil {
			return err
		}
		if opts.Verbose {
			fmt.Fprintf(t.Stdout, "Write at address 0x%08x: 0x%08x\n", address, opts.Value&opts.Width.Mask())
		}
	}

	if !opts.Write || opts.ReadBack {
		v, err := t.peek(opts.Device, address, opts.Width)
		if err != nil {
			return err
		}
		fmt.Fprintf(t.Stdout, "Read at address 0x%08x: 0x%08x\n", address, v)
	}
	return nil
}

func (t *Tool) peek(device string, address uint64, width mmap.Width) (uint64, error) {
	w, err := t.open(device, uint64(width), mmap.ProtRead, address)
	if err != nil {
		return 0, err
	}
	defer t.release(w)

	return w.ReadScalar(width)
}

func (t *Tool) poke(device string, address uint64, width mmap.Width, value uint64) error {
	w, err := t.open(device, uint64(width), mmap.ProtWrite, address)
	if err != nil {
		return err
	}
	defer t.release(w)

	return w.WriteScalar(width, value)
}

// Load copies the whole input file into memory.
func (t *Tool) Load(opts LoadOptions) error {
	in, err := os.Open(opts.Input)
	if err != nil {
		return errors.Wrap(err, "can't open input file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, "can't stat input file")
	}
	size := uint64(info.Size())

	w, err := t.open(opts.Device, size, mmap.ProtWrite, opts.Address)
	if err != nil {
		return err
	}
	defer t.release(w)

	return transfer.Load(w, in, size)
}

// Store writes the requested range to a new output file. The output file
// is left untouched when the range cannot be mapped.
func (t *Tool) Store(opts StoreOptions) (err error) {
	w, err := t.open(opts.Device, opts.Length, mmap.ProtRead, opts.Address)
	if err != nil {
		return err
	}
	defer t.release(w)

	out, err := os.OpenFile(opts.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "can't open file for output")
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "can't close output file")
		}
	}()

	return transfer.Store(out, w, opts.Length)
}

// Copy copies Size bytes from Source to Target.
func (t *Tool) Copy(opts RangeOptions) error {
	src, err := t.open(opts.Device, opts.Size, mmap.ProtRead, opts.Source)
	if err != nil {
		return err
	}
	defer t.release(src)

	dst, err := t.open(opts.Device, opts.Size, mmap.ProtWrite, opts.Target)
	if err != nil {
		return err
	}
	defer t.release(dst)

	return transfer.Copy(dst, src, opts.Size)
}

// Compare prints every byte that differs between the two ranges.
func (t *Tool) Compare(opts RangeOptions) error {
	a, err := t.open(opts.Device, opts.Size, mmap.ProtRead, opts.Source)
	if err != nil {
		return err
	}
	defer t.release(a)

	b, err := t.open(opts.Device, opts.Size, mmap.ProtRead, opts.Target)
	if err != nil {
		return err
	}
	defer t.release(b)

	diffs, err := transfer.Compare(a, b, opts.Size)
	if err != nil {
		return err
	}
	for _, d := range diffs {
		fmt.Fprintf(t.Stdout, "0x%08x: 0x%02x != 0x%08x: 0x%02x\n", opts.Source+d.Offset, d.A, opts.Target+d.Offset, d.B)
	}
	if len(diffs) > 0 {
		return errors.Wrapf(ErrRegionsDiffer, "%d of %d bytes", len(diffs), opts.Size)
	}
	return nil
}
