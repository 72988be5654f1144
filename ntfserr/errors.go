// Package ntfserr defines the typed error values the attribute layer (package attr) returns.
// Every error here carries the absolute byte Position in the volume at which it was detected,
// so a caller can diagnose a malformed image without re-reading it. None of these are ever
// panicked or otherwise raised by unwinding; they are ordinary return values.
//
// Structural problems below the attribute layer (a truncated file record, a fixup mismatch) are
// not modeled as distinct types here: they're reported the way the teacher's record/run parsing
// already does, as plain wrapped errors from the record and runs packages. The attribute layer's
// own taxonomy — the kinds spec.md §4.5 names — gets typed struct values, because those are the
// errors a caller dispatching on attribute type needs to tell apart programmatically; so does
// InvalidAttributeLength, the raw attribute iterator's report of an unusable attribute length.
package ntfserr

import "fmt"

// UnsupportedAttributeType is returned by Attribute.Type when the on-disk type code is not one
// of the known NTFS attribute types (and isn't the end marker, which never reaches this far).
type UnsupportedAttributeType struct {
	Position uint64
	Actual   uint32
}

func (e *UnsupportedAttributeType) Error() string {
	return fmt.Sprintf("ntfs: unsupported attribute type 0x%x at position %d", e.Actual, e.Position)
}

// InvalidAttributeNameOffset is returned by Attribute.Name when the attribute's name_offset
// does not fit within the attribute's own declared length.
type InvalidAttributeNameOffset struct {
	Position uint64
	Expected uint32 // the name offset that was read
	Actual   uint32 // the attribute_length it must fit within
}

func (e *InvalidAttributeNameOffset) Error() string {
	return fmt.Sprintf("ntfs: invalid attribute name offset %d (attribute length is %d) at position %d", e.Expected, e.Actual, e.Position)
}

// InvalidAttributeNameLength is returned by Attribute.Name when name_offset+name_length*2
// overruns the attribute's own declared length.
type InvalidAttributeNameLength struct {
	Position uint64
	Expected uint32 // name_offset + name_length*2
	Actual   uint32 // the attribute_length it must fit within
}

func (e *InvalidAttributeNameLength) Error() string {
	return fmt.Sprintf("ntfs: invalid attribute name length, end offset %d exceeds attribute length %d at position %d", e.Expected, e.Actual, e.Position)
}

// InvalidResidentAttributeValueOffset is returned by Attribute.Value/ResidentValue when a
// resident attribute's value_offset does not fit within the attribute's own declared length.
type InvalidResidentAttributeValueOffset struct {
	Position uint64
	Expected uint32 // the value offset that was read
	Actual   uint32 // the attribute_length it must fit within
}

func (e *InvalidResidentAttributeValueOffset) Error() string {
	return fmt.Sprintf("ntfs: invalid resident attribute value offset %d (attribute length is %d) at position %d", e.Expected, e.Actual, e.Position)
}

// InvalidResidentAttributeValueLength is returned by Attribute.Value/ResidentValue when
// value_offset+value_length overruns the attribute's own declared length.
type InvalidResidentAttributeValueLength struct {
	Position uint64
	Expected uint32 // value_offset + value_length
	Actual   uint32 // the attribute_length it must fit within
}

func (e *InvalidResidentAttributeValueLength) Error() string {
	return fmt.Sprintf("ntfs: invalid resident attribute value length, end offset %d exceeds attribute length %d at position %d", e.Expected, e.Actual, e.Position)
}

// UnexpectedNonResidentAttribute is returned by Attribute.ResidentValue (and so by
// attr.ResidentStructuredValue) when the attribute it was called on is non-resident.
type UnexpectedNonResidentAttribute struct {
	Position uint64
}

func (e *UnexpectedNonResidentAttribute) Error() string {
	return fmt.Sprintf("ntfs: unexpected non-resident attribute at position %d", e.Position)
}

// AttributeOfDifferentType is returned by attr.StructuredValue/ResidentStructuredValue
// when the attribute's actual type doesn't match the structured value decoder requested.
type AttributeOfDifferentType struct {
	Position uint64
	Expected uint32
	Actual   uint32
}

func (e *AttributeOfDifferentType) Error() string {
	return fmt.Sprintf("ntfs: expected attribute of type 0x%x but got 0x%x at position %d", e.Expected, e.Actual, e.Position)
}

// AttributeNotFound is returned by ListEntry.ToAttribute when the target file record has no
// attribute with the instance ID the attribute-list entry named.
type AttributeNotFound struct {
	Position  uint64
	Instance  uint16
	Type      uint32
}

func (e *AttributeNotFound) Error() string {
	return fmt.Sprintf("ntfs: no attribute with instance %d and type 0x%x found at position %d", e.Instance, e.Type, e.Position)
}

// InvalidAttributeLength is returned by the raw attribute iterator when an attribute's declared
// length is smaller than the header size for its residency (0x18 bytes resident, 0x40
// non-resident), or would overrun the record's used region. Unlike the kinds above (which are about one decoded field), this is a structural
// problem with the record's attribute area itself, detected before any Attribute cursor over it
// could even be constructed.
type InvalidAttributeLength struct {
	Position uint64
	Length   uint32
}

func (e *InvalidAttributeLength) Error() string {
	return fmt.Sprintf("ntfs: invalid attribute length %d at position %d", e.Length, e.Position)
}
