package mmap

import "github.com/pkg/errors"

// Error kinds reported by memtool. Callers wrap these with context and
// classify them with errors.Is.
var (
	ErrInvalidNumber     = errors.New("invalid number")
	ErrDeviceOpen        = errors.New("can't open memory device")
	ErrMap               = errors.New("failed to map memory device")
	ErrUnmap             = errors.New("can't unmap memory")
	ErrShortTransfer     = errors.New("short transfer")
	ErrMutuallyExclusive = errors.New("mutually exclusive options")
	ErrUnsupportedWidth  = errors.New("unsupported data type")
	ErrUnknownCommand    = errors.New("unknown subcommand")
	ErrUsage             = errors.New("invalid arguments")
	ErrWindowClosed      = errors.New("window closed")
	ErrProtection        = errors.New("access not allowed by window protection")
)
