package memtool

import (
	"flag"
	"io"

	"github.com/fcurrie/memtool/internal/hexdump"
	"github.com/fcurrie/memtool/internal/numparse"
	"github.com/fcurrie/memtool/pkg/mmap"
	"github.com/pkg/errors"
)

// DumpOptions are the parsed arguments of dump.
type DumpOptions struct {
	Device  string
	Address uint64
	Length  uint64
	Format  hexdump.Options
}

// DevMemOptions are the parsed arguments of devmem.
type DevMemOptions struct {
	Device     string
	Address    uint64
	Width      mmap.Width
	Write      bool
	Value      uint64
	ReadBack   bool
	ForceAlign bool
	Verbose    bool
}

// EffectiveAddress is the address actually accessed, rounded down to the
// access width when alignment is forced.
func (o DevMemOptions) EffectiveAddress() uint64 {
	if o.ForceAlign {
		return o.Width.Align(o.Address)
	}
	return o.Address
}

// LoadOptions are the parsed arguments of load.
type LoadOptions struct {
	Device  string
	Address uint64
	Input   string
}

// StoreOptions are the parsed arguments of store.
type StoreOptions struct {
	Device  string
	Address uint64
	Length  uint64
	Output  string
}

// RangeOptions are the parsed arguments of copy and compare.
type RangeOptions struct {
	Device string
	Source uint64
	Target uint64
	Size   uint64
}

// newFlagSet returns a flag set carrying the options every command shares.
// The help text is printed by the caller, not by the flag package.
func newFlagSet(c Command, stderr io.Writer, device *string) *flag.FlagSet {
	fs := flag.NewFlagSet(c.String(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {}
	fs.StringVar(device, "m", *device, "memory device to use")
	fs.StringVar(device, "mem-dev", *device, "memory device to use")
	return fs
}

func boolFlag(fs *flag.FlagSet, p *bool, value bool, short, long, usage string) {
	fs.BoolVar(p, short, value, usage)
	fs.BoolVar(p, long, value, usage)
}

// parseInterspersed parses fs allowing flags to follow positional
// arguments, and returns the positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if err == flag.ErrHelp {
				return nil, err
			}
			return nil, errors.Wrap(mmap.ErrUsage, err.Error())
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func parseNumbers(texts ...string) ([]uint64, error) {
	values := make([]uint64, len(texts))
	for i, text := range texts {
		v, err := numparse.Parse(text)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func usageError(msg string) error {
	return errors.Wrap(mmap.ErrUsage, msg)
}

func (t *Tool) parseDump(args []string) (DumpOptions, error) {
	device := t.Config.MemDev
	var canonical, ascii, noSqueeze bool

	fs := newFlagSet(CmdDump, t.Stderr, &device)
	boolFlag(fs, &canonical, false, "C", "canonical", "canonical hex+ASCII display")
	boolFlag(fs, &ascii, false, "a", "ascii", "ASCII display")
	boolFlag(fs, &noSqueeze, !t.Config.Squeeze, "v", "no-squeezing", "output identical lines")

	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return DumpOptions{}, err
	}
	if len(pos) != 2 {
		return DumpOptions{}, usageError("missing address or length")
	}
	n, err := parseNumbers(pos...)
	if err != nil {
		return DumpOptions{}, err
	}

	opts := DumpOptions{
		Device:  device,
		Address: n[0],
		Length:  n[1],
		Format:  hexdump.Options{Canonical: canonical, ASCII: ascii, Squeeze: !noSqueeze},
	}
	if err := opts.Format.Validate(); err != nil {
		return DumpOptions{}, err
	}
	return opts, nil
}

func (t *Tool) parseDevMem(args []string) (DevMemOptions, error) {
	opts := DevMemOptions{Device: t.Config.MemDev, Width: mmap.Word}

	fs := newFlagSet(CmdDevMem, t.Stderr, &opts.Device)
	boolFlag(fs, &opts.ReadBack, false, "r", "read-back", "read back data after write")
	boolFlag(fs, &opts.ForceAlign, false, "f", "force-strict-alignment", "align the address down to the access width")
	boolFlag(fs, &opts.Verbose, false, "v", "verbose", "output addresses and written values")

	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return DevMemOptions{}, err
	}
	if len(pos) < 1 || len(pos) > 3 {
		return DevMemOptions{}, usageError("unsupported arguments")
	}

	if opts.Address, err = numparse.Parse(pos[0]); err != nil {
		return DevMemOptions{}, err
	}
	if len(pos) > 1 {
		if opts.Width, err = mmap.ParseWidth(pos[1]); err != nil {
			return DevMemOptions{}, err
		}
	}
	if len(pos) == 3 {
		opts.Write = true
		if opts.Value, err = numparse.Parse(pos[2]); err != nil {
			return DevMemOptions{}, err
		}
	}
	return opts, nil
}

func (t *Tool) parseLoad(args []string) (LoadOptions, error) {
	opts := LoadOptions{Device: t.Config.MemDev}

	fs := newFlagSet(CmdLoad, t.Stderr, &opts.Device)
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return LoadOptions{}, err
	}
	if len(pos) != 2 {
		return LoadOptions{}, usageError("missing address or input file")
	}
	if opts.Address, err = numparse.Parse(pos[0]); err != nil {
		return LoadOptions{}, err
	}
	opts.Input = pos[1]
	return opts, nil
}

func (t *Tool) parseStore(args []string) (StoreOptions, error) {
	opts := StoreOptions{Device: t.Config.MemDev}

	fs := newFlagSet(CmdStore, t.Stderr, &opts.Device)
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return StoreOptions{}, err
	}
	if len(pos) != 3 {
		return StoreOptions{}, usageError("missing address, length or output file")
	}
	n, err := parseNumbers(pos[0], pos[1])
	if err != nil {
		return StoreOptions{}, err
	}
	opts.Address, opts.Length, opts.Output = n[0], n[1], pos[2]
	return opts, nil
}

func (t *Tool) parseRange(c Command, args []string) (RangeOptions, error) {
	opts := RangeOptions{Device: t.Config.MemDev}

	fs := newFlagSet(c, t.Stderr, &opts.Device)
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return RangeOptions{}, err
	}
	if len(pos) != 3 {
		return RangeOptions{}, usageError("missing address or size")
	}
	n, err := parseNumbers(pos...)
	if err != nil {
		return RangeOptions{}, err
	}
	opts.Source, opts.Target, opts.Size = n[0], n[1], n[2]
	return opts, nil
}
