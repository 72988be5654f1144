package structured

import (
	"fmt"

	"github.com/ntfsgo/ntfs/binutil"
	"github.com/ntfsgo/ntfs/record"
)

// fileNameAttributeType is the on-disk $FILE_NAME attribute type code (attr.TypeFileName). It's
// duplicated here, rather than imported from package attr, to keep structured decoupled from the
// attribute cursor layer that calls into it — attr.StructuredValue/ResidentStructuredValue
// already check the enclosing attribute's type before calling a decoder, but $INDEX_ROOT's
// decoder also needs to check its own embedded attribute-type field against this same value.
const fileNameAttributeType = 0x30

// CollationType identifies how an index's entries are ordered.
type CollationType uint32

const (
	CollationTypeBinary           CollationType = 0x00000000
	CollationTypeFileName         CollationType = 0x00000001
	CollationTypeUnicodeString    CollationType = 0x00000002
	CollationTypeNtfsULong        CollationType = 0x00000010
	CollationTypeNtfsSID          CollationType = 0x00000011
	CollationTypeNtfsSecurityHash CollationType = 0x00000012
	CollationTypeNtfsULongs       CollationType = 0x00000013
)

// IndexRoot is the decoded $INDEX_ROOT attribute value: a directory's small, resident index (or
// the root node of a larger index whose remaining nodes live in a $INDEX_ALLOCATION attribute).
type IndexRoot struct {
	AttributeType     uint32
	CollationType     CollationType
	BytesPerRecord    uint32
	ClustersPerRecord uint32
	Flags             uint32
	Entries           []IndexEntry
}

// DecodeIndexRoot decodes b, a $INDEX_ROOT attribute's resident value. Only indices over
// $FILE_NAME (ordinary directories) are supported; an index of any other attribute type is
// reported as an error rather than silently returning zero entries, since misreading an
// unsupported index layout as empty would be worse than failing loudly. The collation type is
// returned as read and is not checked.
func DecodeIndexRoot(b []byte) (IndexRoot, error) {
	if len(b) < 32 {
		return IndexRoot{}, fmt.Errorf("structured: $INDEX_ROOT needs at least 32 bytes but got %d", len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	attributeType := r.Uint32(0x00)
	if attributeType != fileNameAttributeType {
		return IndexRoot{}, fmt.Errorf("structured: unsupported indexed attribute type 0x%x in $INDEX_ROOT", attributeType)
	}

	totalSize := int(r.Uint32(0x14))
	expectedSize := totalSize + 16
	if len(b) < expectedSize {
		return IndexRoot{}, fmt.Errorf("structured: $INDEX_ROOT declares %d bytes of index entries but has %d", expectedSize, len(b))
	}

	entries := []IndexEntry{}
	if totalSize >= 16 {
		parsed, err := decodeIndexEntries(r.Read(0x20, totalSize-16))
		if err != nil {
			return IndexRoot{}, fmt.Errorf("structured: error decoding index entries: %w", err)
		}
		entries = parsed
	}

	return IndexRoot{
		AttributeType:     attributeType,
		CollationType:     CollationType(r.Uint32(0x04)),
		BytesPerRecord:    r.Uint32(0x08),
		ClustersPerRecord: r.Uint32(0x0C),
		Flags:             r.Uint32(0x1C),
		Entries:           entries,
	}, nil
}

// IndexEntry is one entry of a directory index: a reference to a file plus a denormalized copy
// of its $FILE_NAME, so a directory listing doesn't require following the reference to read it.
type IndexEntry struct {
	FileReference record.FileReference
	Flags         uint32
	FileName      FileName
	SubNodeVCN    uint64
}

func decodeIndexEntries(b []byte) ([]IndexEntry, error) {
	if len(b) < 13 {
		return []IndexEntry{}, fmt.Errorf("structured: index entry data needs at least 13 bytes but got %d", len(b))
	}

	entries := make([]IndexEntry, 0)
	for len(b) > 0 {
		if len(b) < 16 {
			return entries, fmt.Errorf("structured: truncated index entry, %d bytes remaining", len(b))
		}
		r := binutil.NewLittleEndianReader(b)
		entryLength := int(r.Uint16(0x08))
		if entryLength < 16 || entryLength > len(b) {
			return entries, fmt.Errorf("structured: invalid index entry length %d (have %d bytes)", entryLength, len(b))
		}

		flags := r.Uint32(0x0C)
		pointsToSubNode := flags&0b1 != 0
		isLastEntryInNode := flags&0b10 != 0
		contentLength := int(r.Uint16(0x0A))

		fileName := FileName{}
		if contentLength != 0 && !isLastEntryInNode {
			content, ok := binutil.CheckedSlice(b, 0x10, contentLength)
			if !ok {
				return entries, fmt.Errorf("structured: index entry $FILE_NAME content does not fit (length %d, entry size %d)", contentLength, len(b))
			}
			parsed, err := DecodeFileName(content)
			if err != nil {
				return entries, fmt.Errorf("structured: error decoding $FILE_NAME in index entry: %w", err)
			}
			fileName = parsed
		}

		subNodeVCN := uint64(0)
		if pointsToSubNode {
			if entryLength < 8 {
				return entries, fmt.Errorf("structured: index entry too short to hold sub-node VCN")
			}
			subNodeVCN = r.Uint64(entryLength - 8)
		}

		fileReference, err := record.ParseFileReference(r.Read(0x00, 8))
		if err != nil {
			return entries, fmt.Errorf("structured: unable to parse file reference: %w", err)
		}

		entries = append(entries, IndexEntry{
			FileReference: fileReference,
			Flags:         flags,
			FileName:      fileName,
			SubNodeVCN:    subNodeVCN,
		})

		b = r.ReadFrom(entryLength)
	}
	return entries, nil
}
