package attr

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ntfsgo/ntfs/binutil"
	"github.com/ntfsgo/ntfs/fragment"
	"github.com/ntfsgo/ntfs/ntfserr"
	"github.com/ntfsgo/ntfs/record"
	"github.com/ntfsgo/ntfs/runs"
	"github.com/ntfsgo/ntfs/utf16"
	"github.com/ntfsgo/ntfs/value"
)

// minHeaderSize is the size of the common attribute header every attribute, resident or not,
// starts with: type(4) + length(4) + is_non_resident(1) + name_length(1) + name_offset(2) +
// flags(2) + instance(2).
const minHeaderSize = 16

// Attribute is a cursor over one attribute header (and, for a resident attribute, its value)
// inside a file record's buffer. It is a non-owning view: copying an Attribute is cheap and
// never copies the underlying record data. Fields are decoded lazily, on each accessor call,
// rather than eagerly at construction, since most callers only need a handful of fields (most
// commonly just Type) for the majority of attributes they step over.
type Attribute struct {
	fr     *record.FileRecord
	offset int
	length int

	// continuation is set only when this Attribute is the first fragment of a non-resident
	// value split across multiple $ATTRIBUTE_LIST-connected attributes. It holds a clone of
	// the list iterator positioned just after the entry that produced this Attribute, so
	// Value can walk forward to find the remaining fragments without disturbing the logical
	// iterator's own traversal state.
	continuation *ListIterator
}

func newAttribute(fr *record.FileRecord, offset, length int) *Attribute {
	return &Attribute{fr: fr, offset: offset, length: length}
}

func (a *Attribute) header() []byte {
	return a.fr.Data[a.offset : a.offset+a.length]
}

// Position returns the absolute byte offset of this attribute within its volume.
func (a *Attribute) Position() uint64 {
	return a.fr.Position + uint64(a.offset)
}

// AttributeLength returns the size, in bytes, of this attribute's on-disk structure (header,
// name, and for resident attributes, its value).
func (a *Attribute) AttributeLength() uint32 {
	return binary.LittleEndian.Uint32(a.header()[0x04:0x08])
}

// Instance returns the identifier of this attribute, unique within its file record.
func (a *Attribute) Instance() uint16 {
	return binary.LittleEndian.Uint16(a.header()[0x0E:0x10])
}

// Flags returns this attribute's flag bits (compressed/encrypted/sparse).
func (a *Attribute) Flags() Flags {
	return Flags(binary.LittleEndian.Uint16(a.header()[0x0C:0x0E]))
}

// IsResident reports whether this attribute's value lives inside the attribute structure itself
// (true) or is described by data runs elsewhere on the volume (false).
func (a *Attribute) IsResident() bool {
	return a.header()[0x08] == 0x00
}

// Type returns the attribute's type, or *ntfserr.UnsupportedAttributeType if the on-disk type
// code isn't one this package knows about.
func (a *Attribute) Type() (Type, error) {
	raw := binary.LittleEndian.Uint32(a.header()[0x00:0x04])
	t, ok := knownType(raw)
	if !ok {
		return 0, &ntfserr.UnsupportedAttributeType{Position: a.Position(), Actual: raw}
	}
	return t, nil
}

func (a *Attribute) nameOffset() uint16   { return binary.LittleEndian.Uint16(a.header()[0x0A:0x0C]) }
func (a *Attribute) nameLengthChars() int { return int(a.header()[0x09]) }

// Name returns the attribute's name, decoded from UTF-16LE. Most attributes are unnamed (most
// are distinguished by Type alone); an unnamed attribute's Name is "".
func (a *Attribute) Name() (string, error) {
	nameOffset := a.nameOffset()
	nameLengthChars := a.nameLengthChars()
	if nameOffset == 0 || nameLengthChars == 0 {
		return "", nil
	}

	attrLength := a.AttributeLength()
	if uint32(nameOffset) >= attrLength {
		return "", &ntfserr.InvalidAttributeNameOffset{Position: a.Position(), Expected: uint32(nameOffset), Actual: attrLength}
	}

	nameByteLength := uint32(nameLengthChars) * 2
	end := uint32(nameOffset) + nameByteLength
	if end > attrLength {
		return "", &ntfserr.InvalidAttributeNameLength{Position: a.Position(), Expected: end, Actual: attrLength}
	}

	raw := a.header()[nameOffset : uint32(nameOffset)+nameByteLength]
	name, err := utf16.DecodeStringLE(raw)
	if err != nil {
		return "", fmt.Errorf("attr: unable to decode attribute name at position %d: %w", a.Position(), err)
	}
	return name, nil
}

func (a *Attribute) residentValueOffset() uint16 { return binary.LittleEndian.Uint16(a.header()[0x14:0x16]) }
func (a *Attribute) residentValueLength() uint32 { return binary.LittleEndian.Uint32(a.header()[0x10:0x14]) }

// ResidentValue returns this attribute's value as a value.Slice. It is an error to call this on
// a non-resident attribute; use Value instead when residency isn't already known.
func (a *Attribute) ResidentValue() (*value.Slice, error) {
	if !a.IsResident() {
		return nil, &ntfserr.UnexpectedNonResidentAttribute{Position: a.Position()}
	}

	offset := a.residentValueOffset()
	length := a.residentValueLength()
	attrLength := a.AttributeLength()

	if uint32(offset) >= attrLength {
		return nil, &ntfserr.InvalidResidentAttributeValueOffset{Position: a.Position(), Expected: uint32(offset), Actual: attrLength}
	}
	end := uint32(offset) + length
	if end > attrLength {
		return nil, &ntfserr.InvalidResidentAttributeValueLength{Position: a.Position(), Expected: end, Actual: attrLength}
	}

	data := a.header()[offset : uint32(offset)+length]
	return value.NewSlice(binutil.Duplicate(data)), nil
}

func (a *Attribute) nonResidentDataRunsOffset() uint16 {
	return binary.LittleEndian.Uint16(a.header()[0x20:0x22])
}

// NonResidentDataSize returns the declared size, in bytes, of a non-resident attribute's value.
// For the first attribute in a chain of $ATTRIBUTE_LIST-connected attributes, this is the size
// of the entire connected value; connected attributes after the first report zero here.
func (a *Attribute) NonResidentDataSize() uint64 {
	return binary.LittleEndian.Uint64(a.header()[0x30:0x38])
}

// LowestVCN and HighestVCN return the virtual cluster number range this non-resident attribute's
// data runs cover. For an attribute whose value isn't split across multiple attributes, this is
// always 0 to (allocated size in clusters - 1).
func (a *Attribute) LowestVCN() uint64  { return binary.LittleEndian.Uint64(a.header()[0x10:0x18]) }
func (a *Attribute) HighestVCN() uint64 { return binary.LittleEndian.Uint64(a.header()[0x18:0x20]) }

func (a *Attribute) dataRuns() ([]runs.Run, error) {
	offset := int(a.nonResidentDataRunsOffset())
	if offset < 0 || offset > a.length {
		return nil, fmt.Errorf("attr: invalid data run offset %d (attribute length %d) at position %d", offset, a.length, a.Position())
	}
	return runs.Decode(a.header()[offset:a.length])
}

// Fragments returns this non-resident attribute's own data runs translated to absolute byte
// fragments, without following any $ATTRIBUTE_LIST continuation. It's meant for callers that need
// the physical layout directly (package volume, loading arbitrary $MFT records by number) rather
// than a ready-to-read Value.
func (a *Attribute) Fragments(bytesPerCluster int) ([]fragment.Fragment, error) {
	if a.IsResident() {
		return nil, fmt.Errorf("attr: attribute at position %d is resident and has no data runs", a.Position())
	}
	dr, err := a.dataRuns()
	if err != nil {
		return nil, err
	}
	return runs.ToFragments(dr, bytesPerCluster), nil
}

// Value returns a reader over this attribute's value, whether it's resident, a plain
// non-resident attribute, or the first of several $ATTRIBUTE_LIST-connected non-resident
// attributes (in which case it transparently stitches the connected attributes' data together).
// source and bytesPerCluster describe the volume to read non-resident data from; loader resolves
// the other file records a connected attribute's continuation may span, and ctx carries
// cancellation/deadline for those loader reads. loader may be nil when this Attribute is known
// not to need continuation (IsResident, or IsResident() == false and HighestVCN()-LowestVCN()+1
// already accounts for the attribute's entire allocated size).
func (a *Attribute) Value(ctx context.Context, loader record.Loader, source io.ReadSeeker, bytesPerCluster int) (value.Value, error) {
	if a.IsResident() {
		return a.ResidentValue()
	}
	if a.continuation == nil {
		dr, err := a.dataRuns()
		if err != nil {
			return nil, err
		}
		return value.NewNonResident(source, dr, bytesPerCluster, a.NonResidentDataSize()), nil
	}
	return a.stitchedValue(ctx, loader, source, bytesPerCluster)
}

func (a *Attribute) stitchedValue(ctx context.Context, loader record.Loader, source io.ReadSeeker, bytesPerCluster int) (value.Value, error) {
	firstRuns, err := a.dataRuns()
	if err != nil {
		return nil, err
	}
	frags := runs.ToFragments(firstRuns, bytesPerCluster)
	totalSize := a.NonResidentDataSize()

	ty, err := a.Type()
	if err != nil {
		return nil, err
	}
	name, err := a.Name()
	if err != nil {
		return nil, err
	}

	cont := *a.continuation // clone: ListIterator is a plain value, copying it is enough
	for {
		entry, ok := cont.Next()
		if !ok {
			break
		}
		if entry.Type != ty || entry.Name != name {
			break
		}

		fr, err := entry.ToFile(ctx, loader)
		if err != nil {
			return nil, err
		}
		continuedAttr, err := entry.ToAttribute(&fr)
		if err != nil {
			return nil, err
		}
		if continuedAttr.IsResident() {
			return nil, fmt.Errorf("attr: attribute-list continuation entry for %s is unexpectedly resident at position %d", ty.Name(), continuedAttr.Position())
		}
		continuedRuns, err := continuedAttr.dataRuns()
		if err != nil {
			return nil, err
		}
		frags = append(frags, runs.ToFragments(continuedRuns, bytesPerCluster)...)
	}

	return value.NewFromFragments(source, frags, totalSize), nil
}
