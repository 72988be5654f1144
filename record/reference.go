package record

import (
	"encoding/binary"
	"fmt"
)

// A FileReference identifies an MFT file record, both by its record number and by a sequence
// number that increments every time the record slot is reused for a new file. Comparing the
// sequence number against the target record's own sequence number is how a reader detects a
// stale reference (one pointing at a record slot that has since been recycled).
type FileReference struct {
	RecordNumber   uint64
	SequenceNumber uint16
}

// ParseFileReference parses an 8-byte, little-endian encoded file reference: the low 6 bytes are
// the record number, the high 2 bytes are the sequence number.
func ParseFileReference(b []byte) (FileReference, error) {
	if len(b) != 8 {
		return FileReference{}, fmt.Errorf("record: expected 8 bytes for file reference but got %d", len(b))
	}
	return FileReference{
		RecordNumber:   binary.LittleEndian.Uint64(padTo6(b[:6])),
		SequenceNumber: binary.LittleEndian.Uint16(b[6:]),
	}, nil
}

// IsZero reports whether this is the zero file reference, used to mark "no base record" on a
// base (non-extension) file record.
func (f FileReference) IsZero() bool {
	return f.RecordNumber == 0 && f.SequenceNumber == 0
}

func padTo6(b []byte) []byte {
	out := make([]byte, 8)
	copy(out, b)
	return out
}
