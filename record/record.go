// Package record parses NTFS file records ("MFT entries"): the fixed-size, fixed-up structures
// that hold a file or directory's attribute list. It stops at the attribute area — decoding what
// lives inside it is package attr's job, one cursor step at a time.
package record

import (
	"bytes"
	"fmt"

	"github.com/ntfsgo/ntfs/binutil"
)

var fileSignature = []byte{0x46, 0x49, 0x4c, 0x45} // "FILE"

// RecordFlag is a bit mask describing a file record's status.
type RecordFlag uint16

const (
	RecordFlagInUse       RecordFlag = 0x0001
	RecordFlagIsDirectory RecordFlag = 0x0002
	RecordFlagInExtend    RecordFlag = 0x0004
	RecordFlagIsIndex     RecordFlag = 0x0008
)

// Is reports whether f's bit mask contains c.
func (f RecordFlag) Is(c RecordFlag) bool {
	return f&c == c
}

// A FileRecord is a parsed, fixed-up MFT file record. Data holds the entire fixed-up record
// buffer; FirstAttributeOffset and UsedSize delimit the region of Data that the attribute layer
// is allowed to walk. When this is an extension record (holding overflow attributes for a base
// record too large to fit in one record), BaseRecordReference identifies that base record;
// otherwise BaseRecordReference is the zero FileReference.
type FileRecord struct {
	Data     []byte
	Position uint64 // absolute byte offset of this record within its volume, for error reporting

	FileReference         FileReference
	BaseRecordReference   FileReference
	LogFileSequenceNumber uint64
	SequenceNumber        uint16
	HardLinkCount         int
	Flags                 RecordFlag
	UsedSize              int
	AllocatedSize         int
	FirstAttributeOffset  int
	NextAttributeID       uint16
}

// Parse parses b, the raw bytes of one file record read from its on-disk position, applying the
// update sequence ("fixup") that protects multi-sector records against torn writes. position is
// the absolute byte offset b was read from, recorded on the result for use in later error
// messages. b is copied; the returned FileRecord does not alias the caller's slice.
func Parse(b []byte, position uint64) (FileRecord, error) {
	if len(b) < 48 {
		return FileRecord{}, fmt.Errorf("record: data should be at least 48 bytes but is %d", len(b))
	}
	if !bytes.Equal(b[:4], fileSignature) {
		return FileRecord{}, fmt.Errorf("record: unknown record signature %# x at position %d", b[:4], position)
	}

	b = binutil.Duplicate(b)
	r := binutil.NewLittleEndianReader(b)

	updateSequenceOffset := int(r.Uint16(0x04))
	updateSequenceSize := int(r.Uint16(0x06))
	b, err := applyFixup(b, updateSequenceOffset, updateSequenceSize, position)
	if err != nil {
		return FileRecord{}, err
	}
	r = binutil.NewLittleEndianReader(b)

	firstAttributeOffset := int(r.Uint16(0x14))
	if firstAttributeOffset < 0 || firstAttributeOffset > len(b) {
		return FileRecord{}, fmt.Errorf("record: invalid first attribute offset %d (record length %d) at position %d", firstAttributeOffset, len(b), position)
	}

	usedSize := int(r.Uint32(0x18))
	if usedSize < firstAttributeOffset || usedSize > len(b) {
		return FileRecord{}, fmt.Errorf("record: invalid used size %d (record length %d) at position %d", usedSize, len(b), position)
	}

	baseRecordRef, err := ParseFileReference(r.Read(0x20, 8))
	if err != nil {
		return FileRecord{}, fmt.Errorf("record: unable to parse base record reference at position %d: %w", position, err)
	}

	return FileRecord{
		Data:                  b,
		Position:              position,
		FileReference:         FileReference{RecordNumber: uint64(r.Uint32(0x2C)), SequenceNumber: r.Uint16(0x10)},
		BaseRecordReference:   baseRecordRef,
		LogFileSequenceNumber: r.Uint64(0x08),
		SequenceNumber:        r.Uint16(0x10),
		HardLinkCount:         int(r.Uint16(0x12)),
		Flags:                 RecordFlag(r.Uint16(0x16)),
		UsedSize:              usedSize,
		AllocatedSize:         int(r.Uint32(0x1C)),
		FirstAttributeOffset:  firstAttributeOffset,
		NextAttributeID:       r.Uint16(0x28),
	}, nil
}

// AttributeArea returns the slice of Data the attribute layer should walk: from
// FirstAttributeOffset up to UsedSize.
func (fr *FileRecord) AttributeArea() []byte {
	return fr.Data[fr.FirstAttributeOffset:fr.UsedSize]
}

func applyFixup(b []byte, offset, length int, position uint64) ([]byte, error) {
	sequence, ok := binutil.CheckedSlice(b, offset, length*2) // length is in 2-byte units
	if !ok || length < 1 {
		return nil, fmt.Errorf("record: invalid update sequence array location (offset %d, length %d) at position %d", offset, length, position)
	}
	updateSequenceNumber := sequence[:2]
	updateSequenceArray := sequence[2:]

	sectorCount := len(updateSequenceArray) / 2
	if sectorCount == 0 {
		return nil, fmt.Errorf("record: update sequence array has no sector entries at position %d", position)
	}
	sectorSize := len(b) / sectorCount

	for i := 1; i <= sectorCount; i++ {
		checkOffset := sectorSize*i - 2
		if !bytes.Equal(updateSequenceNumber, b[checkOffset:checkOffset+2]) {
			return nil, fmt.Errorf("record: update sequence mismatch at sector %d (position %d)", i, position)
		}
	}

	for i := 0; i < sectorCount; i++ {
		writeOffset := sectorSize*(i+1) - 2
		src := i * 2
		copy(b[writeOffset:writeOffset+2], updateSequenceArray[src:src+2])
	}

	return b, nil
}
