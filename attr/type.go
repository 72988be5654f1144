package attr

// Type identifies the kind of data an attribute carries.
type Type uint32

// Known attribute types. Any other on-disk value is unsupported: Attribute.Type reports it via
// *ntfserr.UnsupportedAttributeType rather than returning an Unknown Type value, since a caller
// that got back an opaque "unknown" constant would have no way to tell two different unknown
// types apart without also inspecting the error.
const (
	TypeStandardInformation Type = 0x10  // $STANDARD_INFORMATION; always resident
	TypeAttributeList       Type = 0x20  // $ATTRIBUTE_LIST; mixed residency
	TypeFileName            Type = 0x30  // $FILE_NAME; always resident
	TypeObjectID            Type = 0x40  // $OBJECT_ID; always resident
	TypeSecurityDescriptor  Type = 0x50  // $SECURITY_DESCRIPTOR
	TypeVolumeName          Type = 0x60  // $VOLUME_NAME; always resident
	TypeVolumeInformation   Type = 0x70  // $VOLUME_INFORMATION; always resident
	TypeData                Type = 0x80  // $DATA; mixed residency
	TypeIndexRoot           Type = 0x90  // $INDEX_ROOT; always resident
	TypeIndexAllocation     Type = 0xA0  // $INDEX_ALLOCATION; never resident
	TypeBitmap              Type = 0xB0  // $BITMAP
	TypeReparsePoint        Type = 0xC0  // $REPARSE_POINT
	TypeEAInformation       Type = 0xD0  // $EA_INFORMATION; always resident
	TypeEA                  Type = 0xE0  // $EA
	TypePropertySet         Type = 0xF0  // $PROPERTY_SET
	TypeLoggedUtilityStream Type = 0x100 // $LOGGED_UTILITY_STREAM; always resident

	typeEnd Type = 0xFFFFFFFF // marks the end of a file record's attribute list; never returned
)

// Name returns the attribute type's canonical on-disk name, e.g. "$FILE_NAME".
func (t Type) Name() string {
	switch t {
	case TypeStandardInformation:
		return "$STANDARD_INFORMATION"
	case TypeAttributeList:
		return "$ATTRIBUTE_LIST"
	case TypeFileName:
		return "$FILE_NAME"
	case TypeObjectID:
		return "$OBJECT_ID"
	case TypeSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case TypeVolumeName:
		return "$VOLUME_NAME"
	case TypeVolumeInformation:
		return "$VOLUME_INFORMATION"
	case TypeData:
		return "$DATA"
	case TypeIndexRoot:
		return "$INDEX_ROOT"
	case TypeIndexAllocation:
		return "$INDEX_ALLOCATION"
	case TypeBitmap:
		return "$BITMAP"
	case TypeReparsePoint:
		return "$REPARSE_POINT"
	case TypeEAInformation:
		return "$EA_INFORMATION"
	case TypeEA:
		return "$EA"
	case TypePropertySet:
		return "$PROPERTY_SET"
	case TypeLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	}
	return "unknown"
}

func knownType(raw uint32) (Type, bool) {
	switch Type(raw) {
	case TypeStandardInformation, TypeAttributeList, TypeFileName, TypeObjectID,
		TypeSecurityDescriptor, TypeVolumeName, TypeVolumeInformation, TypeData,
		TypeIndexRoot, TypeIndexAllocation, TypeBitmap, TypeReparsePoint,
		TypeEAInformation, TypeEA, TypePropertySet, TypeLoggedUtilityStream:
		return Type(raw), true
	}
	return 0, false
}

// Flags is a bit mask describing properties of an attribute's value.
type Flags uint16

const (
	FlagsCompressed Flags = 0x0001
	FlagsEncrypted  Flags = 0x4000
	FlagsSparse     Flags = 0x8000
)

// Is reports whether f's bit mask contains c.
func (f Flags) Is(c Flags) bool {
	return f&c == c
}
