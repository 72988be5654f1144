package attr

import (
	"context"
	"fmt"

	"github.com/ntfsgo/ntfs/binutil"
	"github.com/ntfsgo/ntfs/ntfserr"
	"github.com/ntfsgo/ntfs/record"
	"github.com/ntfsgo/ntfs/utf16"
)

// ListEntry is one decoded entry of a $ATTRIBUTE_LIST attribute: a pointer to one fragment of
// an attribute whose full value may be split over several file records.
type ListEntry struct {
	Type                Type
	Name                string
	StartingVCN         uint64
	BaseRecordReference record.FileReference
	Instance            uint16
}

// DecodeAttributeList parses b, the fully-read value of an $ATTRIBUTE_LIST attribute, into its
// entries, in on-disk (VCN) order.
func DecodeAttributeList(b []byte) ([]ListEntry, error) {
	entries := make([]ListEntry, 0)

	for len(b) > 0 {
		if len(b) < 26 {
			return entries, fmt.Errorf("attr: expected at least 26 bytes for attribute list entry but got %d", len(b))
		}

		r := binutil.NewLittleEndianReader(b)
		entryLength := int(r.Uint16(0x04))
		if entryLength < 26 || entryLength > len(b) {
			return entries, fmt.Errorf("attr: invalid attribute list entry length %d (have %d bytes)", entryLength, len(b))
		}

		nameLengthChars := int(r.Byte(0x06))
		name := ""
		if nameLengthChars != 0 {
			nameOffset := int(r.Byte(0x07))
			nameBytes, ok := binutil.CheckedSlice(b, nameOffset, nameLengthChars*2)
			if !ok {
				return entries, fmt.Errorf("attr: attribute list entry name does not fit (offset %d, length %d, entry size %d)", nameOffset, nameLengthChars*2, len(b))
			}
			parsed, err := utf16.DecodeStringLE(nameBytes)
			if err != nil {
				return entries, fmt.Errorf("attr: unable to decode attribute list entry name: %w", err)
			}
			name = parsed
		}

		baseRef, err := record.ParseFileReference(r.Read(0x10, 8))
		if err != nil {
			return entries, fmt.Errorf("attr: unable to parse base record reference: %w", err)
		}

		entries = append(entries, ListEntry{
			Type:                Type(r.Uint32(0x00)),
			Name:                name,
			StartingVCN:         r.Uint64(0x08),
			BaseRecordReference: baseRef,
			Instance:            r.Uint16(0x18),
		})

		b = r.ReadFrom(entryLength)
	}

	return entries, nil
}

// ToFile loads the file record this entry points to, using loader.
func (e ListEntry) ToFile(ctx context.Context, loader record.Loader) (record.FileRecord, error) {
	fr, err := loader.File(ctx, e.BaseRecordReference.RecordNumber)
	if err != nil {
		return record.FileRecord{}, fmt.Errorf("attr: unable to load file record %d for attribute list entry: %w", e.BaseRecordReference.RecordNumber, err)
	}
	if fr.SequenceNumber != e.BaseRecordReference.SequenceNumber {
		return record.FileRecord{}, fmt.Errorf("attr: stale attribute list entry: record %d has sequence number %d, entry expected %d", e.BaseRecordReference.RecordNumber, fr.SequenceNumber, e.BaseRecordReference.SequenceNumber)
	}
	return fr, nil
}

// ToAttribute finds the attribute within fr that this entry points to, matching by instance ID.
func (e ListEntry) ToAttribute(fr *record.FileRecord) (*Attribute, error) {
	it := NewRawIterator(fr)
	for it.Next() {
		a := it.Attribute()
		if a.Instance() == e.Instance {
			return a, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return nil, &ntfserr.AttributeNotFound{Position: fr.Position, Instance: e.Instance, Type: uint32(e.Type)}
}

// ListIterator walks a decoded $ATTRIBUTE_LIST's entries in order. It's a plain value (a slice
// header and an index), so copying a ListIterator is all that's needed to fork off an
// independent continuation that can be advanced without disturbing the original.
type ListIterator struct {
	entries []ListEntry
	idx     int
}

// NewListIterator creates a ListIterator over entries, an already-decoded attribute list.
func NewListIterator(entries []ListEntry) ListIterator {
	return ListIterator{entries: entries}
}

// Next returns the next entry and advances the iterator, or (ListEntry{}, false) once exhausted.
func (it *ListIterator) Next() (ListEntry, bool) {
	if it.idx >= len(it.entries) {
		return ListEntry{}, false
	}
	e := it.entries[it.idx]
	it.idx++
	return e, true
}
