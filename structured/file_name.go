package structured

import (
	"fmt"
	"time"

	"github.com/ntfsgo/ntfs/binutil"
	"github.com/ntfsgo/ntfs/record"
	"github.com/ntfsgo/ntfs/utf16"
)

// Namespace identifies which of NTFS's parallel file-naming conventions a $FILE_NAME belongs to.
type Namespace byte

const (
	NamespacePosix       Namespace = 0
	NamespaceWin32       Namespace = 1
	NamespaceDOS         Namespace = 2
	NamespaceWin32AndDOS Namespace = 3
)

// FileName is the decoded $FILE_NAME attribute value: one of possibly several names (POSIX,
// Win32, DOS 8.3, or a name valid in both Win32 and DOS) a file can be known by, along with a
// denormalized copy of its parent directory reference and core timestamps/sizes.
type FileName struct {
	ParentFileReference record.FileReference
	Creation             time.Time
	FileLastModified     time.Time
	MftLastModified      time.Time
	LastAccess           time.Time
	AllocatedSize        uint64
	RealSize             uint64
	Flags                FileAttribute
	ExtendedData         uint32
	Namespace            Namespace
	Name                 string
}

// DecodeFileName decodes b, a $FILE_NAME attribute's resident value.
func DecodeFileName(b []byte) (FileName, error) {
	if len(b) < 66 {
		return FileName{}, fmt.Errorf("structured: $FILE_NAME needs at least 66 bytes but got %d", len(b))
	}

	nameLengthChars := int(b[0x40])
	nameByteLength := nameLengthChars * 2
	minSize := 66 + nameByteLength
	if len(b) < minSize {
		return FileName{}, fmt.Errorf("structured: $FILE_NAME needs at least %d bytes but got %d", minSize, len(b))
	}

	r := binutil.NewLittleEndianReader(b)

	parentRef, err := record.ParseFileReference(r.Read(0x00, 8))
	if err != nil {
		return FileName{}, fmt.Errorf("structured: unable to parse parent file reference: %w", err)
	}

	name, err := utf16.DecodeStringLE(r.Read(0x42, nameByteLength))
	if err != nil {
		return FileName{}, fmt.Errorf("structured: unable to decode file name: %w", err)
	}

	return FileName{
		ParentFileReference: parentRef,
		Creation:            convertFileTime(r.Uint64(0x08)),
		FileLastModified:    convertFileTime(r.Uint64(0x10)),
		MftLastModified:     convertFileTime(r.Uint64(0x18)),
		LastAccess:          convertFileTime(r.Uint64(0x20)),
		AllocatedSize:       r.Uint64(0x28),
		RealSize:            r.Uint64(0x30),
		Flags:               FileAttribute(r.Uint32(0x38)),
		ExtendedData:        r.Uint32(0x3C),
		Namespace:           Namespace(r.Byte(0x41)),
		Name:                name,
	}, nil
}
