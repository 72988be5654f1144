package record

import "context"

// A Loader loads a file record by its MFT record number. The attribute layer (package attr)
// uses this to resolve $ATTRIBUTE_LIST entries that point at a different record than the one
// currently being iterated, without needing to know how records are actually stored on the
// volume (that's Filesystem's job, in package volume). ctx carries cancellation/deadline for the
// underlying device read; a Loader backed by a local, already-read-in-full record may ignore it.
type Loader interface {
	File(ctx context.Context, recordNumber uint64) (FileRecord, error)
}
