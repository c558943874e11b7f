package transfer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fcurrie/memtool/pkg/mmap"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func newDevice(t *testing.T, data []byte) string {
	t.Helper()

	size := mmap.AlignUp(uint64(len(data)), mmap.PageSize()) + mmap.PageSize()
	buf := make([]byte, size)
	copy(buf, data)
	path := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("Failed to create device file: %v", err)
	}
	return path
}

func open(t *testing.T, dev string, n uint64, prot mmap.Protection, address uint64) *mmap.Window {
	t.Helper()

	w, err := mmap.Open(dev, n, prot, address)
	if err != nil {
		t.Fatalf("Open(0x%x, %d) error = %v", address, n, err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func contents(t *testing.T, dev string, from, to int) []byte {
	t.Helper()

	b, err := os.ReadFile(dev)
	if err != nil {
		t.Fatalf("Failed to read device file: %v", err)
	}
	return b[from:to]
}

func TestCopy(t *testing.T) {
	dev := newDevice(t, []byte("source bytes here"))
	page := mmap.PageSize()

	src := open(t, dev, 12, mmap.ProtRead, 0)
	dst := open(t, dev, 12, mmap.ProtWrite, page-5)
	if err := Copy(dst, src, 12); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	if diff := cmp.Diff([]byte("source bytes"), contents(t, dev, int(page-5), int(page+7))); diff != "" {
		t.Errorf("Copy() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore(t *testing.T) {
	dev := newDevice(t, []byte("0123456789"))
	src := open(t, dev, 6, mmap.ProtRead, 2)

	var buf bytes.Buffer
	if err := Store(&buf, src, 6); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if got := buf.String(); got != "234567" {
		t.Errorf("Store() wrote %q, want %q", got, "234567")
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestStoreShort(t *testing.T) {
	dev := newDevice(t, []byte("0123456789"))
	src := open(t, dev, 8, mmap.ProtRead, 0)

	if err := Store(shortWriter{}, src, 8); !errors.Is(err, mmap.ErrShortTransfer) {
		t.Errorf("Store() error = %v, want ErrShortTransfer", err)
	}
}

func TestLoad(t *testing.T) {
	dev := newDevice(t, nil)

	tests := []struct {
		name    string
		input   string
		n       uint64
		wantErr bool
	}{
		{name: "exact", input: "payload", n: 7},
		{name: "longer input", input: "payload and more", n: 7},
		{name: "short input", input: "pay", n: 7, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := open(t, dev, tt.n, mmap.ProtWrite, 0x20)
			err := Load(dst, bytes.NewReader([]byte(tt.input)), tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, mmap.ErrShortTransfer) {
					t.Errorf("Load() error = %v, want ErrShortTransfer", err)
				}
				return
			}
			if got := string(contents(t, dev, 0x20, 0x27)); got != "payload" {
				t.Errorf("Load() stored %q, want %q", got, "payload")
			}
		})
	}
}

func TestCompare(t *testing.T) {
	dev := newDevice(t, []byte("abcdefgh--abXdefgY"))
	a := open(t, dev, 8, mmap.ProtRead, 0)
	b := open(t, dev, 8, mmap.ProtRead, 10)

	got, err := Compare(a, b, 8)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	want := []Mismatch{
		{Offset: 2, A: 'c', B: 'X'},
		{Offset: 7, A: 'h', B: 'Y'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
	}

	same, err := Compare(a, a, 8)
	if err != nil || len(same) != 0 {
		t.Errorf("Compare() of a window with itself = %v, %v", same, err)
	}
}

func TestTransferBeyondWindow(t *testing.T) {
	dev := newDevice(t, nil)
	src := open(t, dev, 4, mmap.ProtRead, 0)

	if err := Store(&bytes.Buffer{}, src, 5); !errors.Is(err, mmap.ErrShortTransfer) {
		t.Errorf("Store() past window error = %v, want ErrShortTransfer", err)
	}
}
