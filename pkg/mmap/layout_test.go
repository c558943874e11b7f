package mmap

import "testing"

func TestPlanWindow(t *testing.T) {
	const page = 4096

	tests := []struct {
		name    string
		address uint64
		length  uint64
		want    Layout
	}{
		{
			name:    "aligned single byte",
			address: 0x1000,
			length:  1,
			want:    Layout{Base: 0x1000, Offset: 0, MappedLength: page},
		},
		{
			name:    "unaligned inside page",
			address: 0x1010,
			length:  16,
			want:    Layout{Base: 0x1000, Offset: 0x10, MappedLength: page},
		},
		{
			name:    "word straddling a boundary",
			address: 0x1ffe,
			length:  4,
			want:    Layout{Base: 0x1000, Offset: 0xffe, MappedLength: 2 * page},
		},
		{
			name:    "ends exactly on boundary",
			address: 0x1ffc,
			length:  4,
			want:    Layout{Base: 0x1000, Offset: 0xffc, MappedLength: page},
		},
		{
			name:    "whole pages aligned",
			address: 0x3000,
			length:  3 * page,
			want:    Layout{Base: 0x3000, Offset: 0, MappedLength: 4 * page},
		},
		{
			name:    "whole pages unaligned",
			address: 0x3001,
			length:  3 * page,
			want:    Layout{Base: 0x3000, Offset: 1, MappedLength: 4 * page},
		},
		{
			name:    "above 4GiB",
			address: 0x1_0000_0123,
			length:  8,
			want:    Layout{Base: 0x1_0000_0000, Offset: 0x123, MappedLength: page},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanWindow(tt.address, tt.length, page)
			if got != tt.want {
				t.Errorf("PlanWindow(0x%x, %d) = %+v, want %+v", tt.address, tt.length, got, tt.want)
			}
		})
	}
}

// The extra page only compensates for the start of the window being pulled
// down to a page boundary, so it is enough however many boundaries the
// range crosses.
func TestPlanWindowCoversRange(t *testing.T) {
	pageSizes := []uint64{4096, 16384, 65536}
	lengths := []uint64{1, 2, 3, 4, 7, 8, 15, 16, 17, 255, 4095, 4096, 4097, 8191, 8192, 8193, 65535, 65536, 65537, 200000}

	for _, page := range pageSizes {
		offsets := []uint64{0, 1, 2, 3, 7, 8, page / 2, page - 16, page - 8, page - 4, page - 2, page - 1}
		for _, length := range lengths {
			for _, off := range offsets {
				address := 5*page + off
				l := PlanWindow(address, length, page)

				if l.MappedLength%page != 0 {
					t.Fatalf("page %d addr 0x%x len %d: mapped length %d not page multiple", page, address, length, l.MappedLength)
				}
				if l.Base%page != 0 || l.Base > address || address-l.Base >= page {
					t.Fatalf("page %d addr 0x%x: bad base 0x%x", page, address, l.Base)
				}
				if l.Base+l.Offset != address {
					t.Fatalf("page %d addr 0x%x: base 0x%x + offset 0x%x", page, address, l.Base, l.Offset)
				}
				if l.Offset >= l.MappedLength || !l.Covers(length) {
					t.Fatalf("page %d addr 0x%x len %d: %+v does not cover range", page, address, length, l)
				}
				if l.MappedLength > AlignUp(length, page)+page {
					t.Fatalf("page %d addr 0x%x len %d: mapped %d more than one spare page", page, address, length, l.MappedLength)
				}
			}
		}
	}
}

func TestLayoutCoversWrapped(t *testing.T) {
	const page = 4096

	for _, length := range []uint64{0xfffffffffffff001, 0xffffffffffffffff, 0xffffffffffffe001} {
		if l := PlanWindow(0, length, page); l.Covers(length) {
			t.Errorf("PlanWindow(0, 0x%x) = %+v reports covering the range", length, l)
		}
	}
	if l := (Layout{Offset: 8, MappedLength: page}); l.Covers(0xfffffffffffffffc) {
		t.Errorf("Covers() with offset+length wrapping = true")
	}
	if l := (Layout{Offset: 8, MappedLength: page}); !l.Covers(page - 8) {
		t.Errorf("Covers(page-8) at offset 8 = false")
	}
}

func TestAlign(t *testing.T) {
	if got := AlignDown(uint64(0x1fff), 0x1000); got != 0x1000 {
		t.Errorf("AlignDown = 0x%x, want 0x1000", got)
	}
	if got := AlignDown(uint64(0x2000), 0x1000); got != 0x2000 {
		t.Errorf("AlignDown = 0x%x, want 0x2000", got)
	}
	if got := AlignUp(uint64(17), 16); got != 32 {
		t.Errorf("AlignUp = %d, want 32", got)
	}
	if got := AlignUp(uint64(32), 16); got != 32 {
		t.Errorf("AlignUp = %d, want 32", got)
	}
	if got := AlignUp(uint32(0), 16); got != 0 {
		t.Errorf("AlignUp = %d, want 0", got)
	}
}
