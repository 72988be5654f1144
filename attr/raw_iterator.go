package attr

import (
	"encoding/binary"

	"github.com/ntfsgo/ntfs/ntfserr"
	"github.com/ntfsgo/ntfs/record"
)

// RawIterator performs a fused, linear walk over the attributes physically present in one file
// record, stopping at the record's own end-of-attributes marker. It never follows
// $ATTRIBUTE_LIST entries into other records; use LogicalIterator for that.
//
// Use it like bufio.Scanner: call Next in a loop, and check Err once Next returns false.
type RawIterator struct {
	fr    *record.FileRecord
	pos   int
	limit int
	cur   *Attribute
	err   error
	done  bool
}

// NewRawIterator creates a RawIterator over fr's own attribute area.
func NewRawIterator(fr *record.FileRecord) *RawIterator {
	return &RawIterator{fr: fr, pos: fr.FirstAttributeOffset, limit: fr.UsedSize}
}

// Next advances the iterator and reports whether an attribute is available. Once Next returns
// false, it will keep returning false; check Err to see whether that was because the attribute
// area was exhausted cleanly or because malformed data was encountered.
func (it *RawIterator) Next() bool {
	if it.done {
		return false
	}

	remaining := it.limit - it.pos
	if remaining <= 0 {
		it.done = true
		return false
	}
	if remaining < 4 {
		it.fail(&ntfserr.InvalidAttributeLength{Position: it.fr.Position + uint64(it.pos), Length: 0})
		return false
	}

	data := it.fr.Data[it.pos:it.limit]
	typeRaw := binary.LittleEndian.Uint32(data[0:4])
	if Type(typeRaw) == typeEnd {
		it.done = true
		return false
	}

	if remaining < minHeaderSize {
		it.fail(&ntfserr.InvalidAttributeLength{Position: it.fr.Position + uint64(it.pos), Length: uint32(remaining)})
		return false
	}

	length := binary.LittleEndian.Uint32(data[4:8])
	// The full header for the attribute's residency must fit: 0x18 bytes resident, 0x40
	// non-resident, so every fixed-offset field Attribute reads lies inside the attribute.
	minLength := uint32(0x18)
	if data[8] != 0 {
		minLength = 0x40
	}
	if length < minLength || int(length) > remaining {
		it.fail(&ntfserr.InvalidAttributeLength{Position: it.fr.Position + uint64(it.pos), Length: length})
		return false
	}

	it.cur = newAttribute(it.fr, it.pos, int(length))
	it.pos += int(length)
	return true
}

func (it *RawIterator) fail(err error) {
	it.err = err
	it.done = true
}

// Attribute returns the attribute Next just produced. It is only valid to call after a call to
// Next that returned true.
func (it *RawIterator) Attribute() *Attribute {
	return it.cur
}

// Err returns the first error encountered, if Next stopped early because of malformed data.
func (it *RawIterator) Err() error {
	return it.err
}
