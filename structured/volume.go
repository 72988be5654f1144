package structured

import (
	"fmt"

	"github.com/ntfsgo/ntfs/binutil"
	"github.com/ntfsgo/ntfs/utf16"
)

// VolumeName is the decoded $VOLUME_NAME attribute value: the volume's label, as shown by
// Windows Explorer or `vol`/`label`. An empty value is valid and means the volume has no label.
type VolumeName struct {
	Name string
}

// DecodeVolumeName decodes b, a $VOLUME_NAME attribute's resident value.
func DecodeVolumeName(b []byte) (VolumeName, error) {
	if len(b) == 0 {
		return VolumeName{}, nil
	}
	name, err := utf16.DecodeStringLE(b)
	if err != nil {
		return VolumeName{}, fmt.Errorf("structured: unable to decode $VOLUME_NAME: %w", err)
	}
	return VolumeName{Name: name}, nil
}

// VolumeInformation is the decoded $VOLUME_INFORMATION attribute value.
type VolumeInformation struct {
	MajorVersion byte
	MinorVersion byte
	Flags        VolumeFlags
}

// VolumeFlags is a bit mask of volume-wide dirty/upgrade flags.
type VolumeFlags uint16

const (
	VolumeFlagDirty             VolumeFlags = 0x0001
	VolumeFlagResizeLogFile     VolumeFlags = 0x0002
	VolumeFlagUpgradeOnMount    VolumeFlags = 0x0004
	VolumeFlagMounted           VolumeFlags = 0x0008
	VolumeFlagDeleteUSNUnderway VolumeFlags = 0x0010
	VolumeFlagRepairObjectID    VolumeFlags = 0x0020
	VolumeFlagModifiedByChkdsk  VolumeFlags = 0x8000
)

// Is reports whether f's bit mask contains c.
func (f VolumeFlags) Is(c VolumeFlags) bool {
	return f&c == c
}

// DecodeVolumeInformation decodes b, a $VOLUME_INFORMATION attribute's resident value.
func DecodeVolumeInformation(b []byte) (VolumeInformation, error) {
	if len(b) < 12 {
		return VolumeInformation{}, fmt.Errorf("structured: $VOLUME_INFORMATION needs at least 12 bytes but got %d", len(b))
	}
	r := binutil.NewLittleEndianReader(b)
	return VolumeInformation{
		MajorVersion: r.Byte(0x08),
		MinorVersion: r.Byte(0x09),
		Flags:        VolumeFlags(r.Uint16(0x0A)),
	}, nil
}

// ObjectID is the decoded $OBJECT_ID attribute value: the distributed-link-tracking GUIDs
// Windows assigns a file so shortcuts and shell links can follow it across moves/renames.
type ObjectID struct {
	ObjectID      [16]byte
	BirthVolumeID [16]byte
	BirthObjectID [16]byte
	DomainID      [16]byte
}

// DecodeObjectID decodes b, an $OBJECT_ID attribute's resident value. The three birth/domain
// GUIDs are only present when the file has been involved in cross-volume tracking; a shorter b
// containing just the object ID itself is valid and decodes the remaining fields as zero.
func DecodeObjectID(b []byte) (ObjectID, error) {
	if len(b) < 16 {
		return ObjectID{}, fmt.Errorf("structured: $OBJECT_ID needs at least 16 bytes but got %d", len(b))
	}
	var oid ObjectID
	copy(oid.ObjectID[:], b[0:16])
	if len(b) >= 32 {
		copy(oid.BirthVolumeID[:], b[16:32])
	}
	if len(b) >= 48 {
		copy(oid.BirthObjectID[:], b[32:48])
	}
	if len(b) >= 64 {
		copy(oid.DomainID[:], b[48:64])
	}
	return oid, nil
}
