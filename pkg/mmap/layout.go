package mmap

// Layout describes the page-aligned region that has to be mapped so that
// an arbitrary byte range is fully covered.
type Layout struct {
	// Base is the device offset of the mapping, a multiple of the page size.
	Base uint64
	// Offset is the position of the requested address inside the mapping.
	Offset uint64
	// MappedLength is the size of the mapping, a multiple of the page size.
	MappedLength uint64
}

// PlanWindow computes the mapping needed to reach length bytes starting at
// address. The whole pages covering length are extended by one page when
// the range crosses the page boundary above address, because the mapping
// starts at the page below address rather than at address itself.
//
// The arithmetic wraps for lengths within two pages of the uint64 limit;
// such a layout does not cover length, which Covers reports.
func PlanWindow(address, length, pageSize uint64) Layout {
	pages := length / pageSize
	if length%pageSize != 0 {
		pages++
	}
	mapped := pages * pageSize

	offset := address & (pageSize - 1)
	if offset+length > pageSize {
		mapped += pageSize
	}

	return Layout{
		Base:         AlignDown(address, pageSize),
		Offset:       offset,
		MappedLength: mapped,
	}
}

// Covers reports whether length bytes from Offset fit inside the mapping.
func (l Layout) Covers(length uint64) bool {
	return l.Offset <= l.MappedLength && length <= l.MappedLength-l.Offset
}
