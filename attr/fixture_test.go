package attr_test

import (
	"encoding/binary"
	"errors"

	"github.com/ntfsgo/ntfs/record"
)

var assertNotFoundErr = errors.New("record not found")

// buildResidentAttribute assembles the raw bytes of one resident attribute header plus its value.
// Real NTFS attributes pad their length to a multiple of 8 bytes; that alignment isn't required
// for these tests to be meaningful, so it's omitted for simplicity.
func buildResidentAttribute(typ uint32, instance uint16, name string, value []byte) []byte {
	nameBytes := encodeUTF16LE(name)
	nameOffset := 0x18
	valueOffset := nameOffset + len(nameBytes)
	length := valueOffset + len(value)

	b := make([]byte, length)
	binary.LittleEndian.PutUint32(b[0x00:], typ)
	binary.LittleEndian.PutUint32(b[0x04:], uint32(length))
	b[0x08] = 0 // resident
	b[0x09] = byte(len(name))
	binary.LittleEndian.PutUint16(b[0x0A:], uint16(nameOffset))
	binary.LittleEndian.PutUint16(b[0x0C:], 0) // flags
	binary.LittleEndian.PutUint16(b[0x0E:], instance)
	binary.LittleEndian.PutUint32(b[0x10:], uint32(len(value)))
	binary.LittleEndian.PutUint16(b[0x14:], uint16(valueOffset))
	b[0x16] = 0 // indexed flag
	copy(b[nameOffset:], nameBytes)
	copy(b[valueOffset:], value)
	return b
}

// buildNonResidentAttribute assembles the raw bytes of one non-resident attribute header plus its
// data runs.
func buildNonResidentAttribute(typ uint32, instance uint16, name string, lowestVCN, highestVCN uint64, dataRuns []byte, allocatedSize, dataSize, initializedSize uint64) []byte {
	nameBytes := encodeUTF16LE(name)
	nameOffset := 0x40
	dataRunsOffset := nameOffset + len(nameBytes)
	length := dataRunsOffset + len(dataRuns)

	b := make([]byte, length)
	binary.LittleEndian.PutUint32(b[0x00:], typ)
	binary.LittleEndian.PutUint32(b[0x04:], uint32(length))
	b[0x08] = 1 // non-resident
	b[0x09] = byte(len(name))
	binary.LittleEndian.PutUint16(b[0x0A:], uint16(nameOffset))
	binary.LittleEndian.PutUint16(b[0x0C:], 0) // flags
	binary.LittleEndian.PutUint16(b[0x0E:], instance)
	binary.LittleEndian.PutUint64(b[0x10:], lowestVCN)
	binary.LittleEndian.PutUint64(b[0x18:], highestVCN)
	binary.LittleEndian.PutUint16(b[0x20:], uint16(dataRunsOffset))
	b[0x22] = 0 // compression unit exponent
	binary.LittleEndian.PutUint64(b[0x28:], allocatedSize)
	binary.LittleEndian.PutUint64(b[0x30:], dataSize)
	binary.LittleEndian.PutUint64(b[0x38:], initializedSize)
	copy(b[nameOffset:], nameBytes)
	copy(b[dataRunsOffset:], dataRuns)
	return b
}

func encodeUTF16LE(s string) []byte {
	runes := []rune(s)
	b := make([]byte, 0, len(runes)*2)
	for _, r := range runes {
		b = append(b, byte(r), byte(r>>8))
	}
	return b
}

// buildFileRecordWithAttributes concatenates attrs (each already-encoded via
// buildResidentAttribute/buildNonResidentAttribute) and an end-of-attributes marker into a
// FileRecord's Data, bypassing record.Parse's fixup logic since this isn't a real multi-sector
// on-disk record.
func buildFileRecordWithAttributes(recordNumber uint64, attrs ...[]byte) record.FileRecord {
	const firstAttributeOffset = 0x38
	data := make([]byte, firstAttributeOffset)
	for _, a := range attrs {
		data = append(data, a...)
	}
	end := make([]byte, 4)
	binary.LittleEndian.PutUint32(end, 0xFFFFFFFF)
	data = append(data, end...)

	return record.FileRecord{
		Data:                 data,
		Position:             0,
		FileReference:        record.FileReference{RecordNumber: recordNumber, SequenceNumber: 1},
		SequenceNumber:       1,
		UsedSize:             len(data),
		AllocatedSize:        len(data),
		FirstAttributeOffset: firstAttributeOffset,
	}
}
