// Package structured decodes the resident byte layout of NTFS's named attribute values
// ($STANDARD_INFORMATION, $FILE_NAME, and so on) into Go structs. Each decoder here is a plain
// func([]byte) (S, error), meant to be passed to attr.ResidentStructuredValue or
// attr.StructuredValue — this package never imports attr, so there's no risk of it quietly
// growing a dependency back on the attribute cursor it's decoupled from.
package structured

import (
	"fmt"
	"time"

	"github.com/ntfsgo/ntfs/binutil"
)

// FileAttribute is a bit mask of the DOS/Win32 file attribute bits stored in
// $STANDARD_INFORMATION and $FILE_NAME.
type FileAttribute uint32

const (
	FileAttributeReadOnly          FileAttribute = 0x0001
	FileAttributeHidden            FileAttribute = 0x0002
	FileAttributeSystem            FileAttribute = 0x0004
	FileAttributeArchive           FileAttribute = 0x0020
	FileAttributeDevice            FileAttribute = 0x0040
	FileAttributeNormal            FileAttribute = 0x0080
	FileAttributeTemporary         FileAttribute = 0x0100
	FileAttributeSparseFile        FileAttribute = 0x0200
	FileAttributeReparsePoint      FileAttribute = 0x0400
	FileAttributeCompressed        FileAttribute = 0x0800
	FileAttributeOffline           FileAttribute = 0x1000
	FileAttributeNotContentIndexed FileAttribute = 0x2000
	FileAttributeEncrypted         FileAttribute = 0x4000
)

// Is reports whether f's bit mask contains c.
func (f FileAttribute) Is(c FileAttribute) bool {
	return f&c == c
}

// StandardInformation is the decoded $STANDARD_INFORMATION attribute value: file timestamps,
// DOS attribute bits, and (in the NTFS 3.0+ layout) quota/security/USN bookkeeping fields.
type StandardInformation struct {
	Creation                time.Time
	FileLastModified        time.Time
	MftLastModified         time.Time
	LastAccess              time.Time
	FileAttributes          FileAttribute
	MaximumNumberOfVersions uint32
	VersionNumber           uint32
	ClassID                 uint32
	OwnerID                 uint32
	SecurityID              uint32
	QuotaCharged            uint64
	UpdateSequenceNumber    uint64
}

// DecodeStandardInformation decodes b, a $STANDARD_INFORMATION attribute's resident value.
// Pre-NTFS-3.0 volumes have a 48-byte $STANDARD_INFORMATION without the owner/security/quota/usn
// fields; those decode to zero when b is that short.
func DecodeStandardInformation(b []byte) (StandardInformation, error) {
	if len(b) < 48 {
		return StandardInformation{}, fmt.Errorf("structured: $STANDARD_INFORMATION needs at least 48 bytes but got %d", len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	var ownerID, securityID uint32
	var quotaCharged, usn uint64
	if len(b) >= 0x30+4 {
		ownerID = r.Uint32(0x30)
	}
	if len(b) >= 0x34+4 {
		securityID = r.Uint32(0x34)
	}
	if len(b) >= 0x38+8 {
		quotaCharged = r.Uint64(0x38)
	}
	if len(b) >= 0x40+8 {
		usn = r.Uint64(0x40)
	}

	return StandardInformation{
		Creation:                convertFileTime(r.Uint64(0x00)),
		FileLastModified:        convertFileTime(r.Uint64(0x08)),
		MftLastModified:         convertFileTime(r.Uint64(0x10)),
		LastAccess:              convertFileTime(r.Uint64(0x18)),
		FileAttributes:          FileAttribute(r.Uint32(0x20)),
		MaximumNumberOfVersions: r.Uint32(0x24),
		VersionNumber:           r.Uint32(0x28),
		ClassID:                 r.Uint32(0x2C),
		OwnerID:                 ownerID,
		SecurityID:              securityID,
		QuotaCharged:            quotaCharged,
		UpdateSequenceNumber:    usn,
	}, nil
}

// convertFileTime converts an NTFS/Windows FILETIME value (100-nanosecond intervals since
// 1601-01-01 UTC) into a time.Time.
func convertFileTime(v uint64) time.Time {
	epoch := time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)
	return epoch.Add(time.Duration(int64(v)) * 100)
}
