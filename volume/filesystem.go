package volume

import (
	"context"
	"fmt"
	"io"

	"github.com/ntfsgo/ntfs/attr"
	"github.com/ntfsgo/ntfs/bootsect"
	"github.com/ntfsgo/ntfs/fragment"
	"github.com/ntfsgo/ntfs/record"
)

// Filesystem bootstraps access to an NTFS volume: it parses the boot sector, locates $MFT's own
// base file record, and from there can load any other file record by number. It implements
// record.Loader, so it can be passed directly wherever an $ATTRIBUTE_LIST continuation needs to
// resolve a file reference into a record.
type Filesystem struct {
	source ByteSource
	reader io.ReadSeeker

	boot            bootsect.BootSector
	bytesPerCluster int
	recordSize      int

	mftFragments []fragment.Fragment
}

// Open parses source's boot sector, validates it as NTFS, and loads enough of $MFT's own layout
// to serve File lookups. The returned *Filesystem keeps source open for its own lifetime; the
// caller is responsible for calling source.Close once done. ctx bounds the two reads Open itself
// performs (boot sector, $MFT's own record); it is not retained afterward; Reader() reads through
// a context.Background() adapter since fragment.Reader's io.ReadSeeker contract has no room to
// carry one, and the streaming dump path isn't part of this package's cancellable boundary.
func Open(ctx context.Context, source ByteSource) (*Filesystem, error) {
	bootBytes := make([]byte, 512)
	if _, err := source.ReadAt(ctx, bootBytes, 0); err != nil {
		return nil, fmt.Errorf("volume: unable to read boot sector: %w", err)
	}
	boot, err := bootsect.Parse(bootBytes)
	if err != nil {
		return nil, fmt.Errorf("volume: unable to parse boot sector: %w", err)
	}
	if boot.OemId != "NTFS    " {
		return nil, fmt.Errorf("volume: unrecognized OEM id %q, not an NTFS volume", boot.OemId)
	}

	reader := io.NewSectionReader(backgroundReaderAt{source}, 0, int64(boot.TotalSectors)*int64(boot.BytesPerSector))

	fs := &Filesystem{
		source:          source,
		reader:          reader,
		boot:            boot,
		bytesPerCluster: boot.BytesPerCluster,
		recordSize:      boot.FileRecordSegmentSizeInBytes,
	}

	mftPosition := boot.MftClusterNumber * uint64(boot.BytesPerCluster)
	mftRecordBytes := make([]byte, boot.FileRecordSegmentSizeInBytes)
	if _, err := source.ReadAt(ctx, mftRecordBytes, int64(mftPosition)); err != nil {
		return nil, fmt.Errorf("volume: unable to read $MFT's own file record: %w", err)
	}
	mftRecord, err := record.Parse(mftRecordBytes, mftPosition)
	if err != nil {
		return nil, fmt.Errorf("volume: unable to parse $MFT's own file record: %w", err)
	}

	frags, err := dataFragments(&mftRecord, fs.bytesPerCluster)
	if err != nil {
		return nil, fmt.Errorf("volume: unable to locate $MFT's own $DATA attribute: %w", err)
	}
	fs.mftFragments = frags

	return fs, nil
}

func dataFragments(fr *record.FileRecord, bytesPerCluster int) ([]fragment.Fragment, error) {
	it := attr.NewRawIterator(fr)
	for it.Next() {
		a := it.Attribute()
		ty, err := a.Type()
		if err != nil {
			return nil, err
		}
		if ty != attr.TypeData {
			continue
		}
		return a.Fragments(bytesPerCluster)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("volume: no $DATA attribute found")
}

// BootSector returns the volume's parsed boot sector.
func (fs *Filesystem) BootSector() bootsect.BootSector {
	return fs.boot
}

// BytesPerCluster returns the volume's cluster size, as derived from the boot sector.
func (fs *Filesystem) BytesPerCluster() int {
	return fs.bytesPerCluster
}

// Reader returns a seekable view over the whole volume, suitable for fragment.NewReader or
// attr.Attribute.Value.
func (fs *Filesystem) Reader() io.ReadSeeker {
	return fs.reader
}

// MFTDataFragments returns the absolute byte fragments backing $MFT's own $DATA attribute — the
// full MFT table, as opposed to just $MFT's own base file record. It's meant for tools that want
// to read or copy the entire table sequentially with a fragment.Reader.
func (fs *Filesystem) MFTDataFragments() []fragment.Fragment {
	return append([]fragment.Fragment(nil), fs.mftFragments...)
}

// File implements record.Loader: it translates recordNumber into a physical offset within $MFT's
// own data, using the fragment list captured at Open, and parses the file record found there.
// ctx bounds the underlying positioned read.
//
// A record that happens to straddle two of $MFT's own fragments can't be read with a single
// positioned read; Filesystem reports that case as an error rather than silently stitching it
// together, since in practice NTFS lays $MFT's data runs out in multiples of the file record
// size and this should not occur on a well-formed volume.
func (fs *Filesystem) File(ctx context.Context, recordNumber uint64) (record.FileRecord, error) {
	virtualOffset := recordNumber * uint64(fs.recordSize)
	physicalOffset, err := translate(fs.mftFragments, int64(virtualOffset), int64(fs.recordSize))
	if err != nil {
		return record.FileRecord{}, fmt.Errorf("volume: unable to locate record %d: %w", recordNumber, err)
	}

	b := make([]byte, fs.recordSize)
	if _, err := fs.source.ReadAt(ctx, b, physicalOffset); err != nil {
		return record.FileRecord{}, fmt.Errorf("volume: unable to read record %d at position %d: %w", recordNumber, physicalOffset, err)
	}
	return record.Parse(b, uint64(physicalOffset))
}

// translate walks fragments (each covering a contiguous span of the virtual stream they were
// decoded from, in the order they appear in the data run list) to find the physical byte offset
// corresponding to virtualOffset, and verifies a read of length bytes starting there does not
// cross into the next fragment.
func translate(fragments []fragment.Fragment, virtualOffset, length int64) (int64, error) {
	cumulative := int64(0)
	for _, f := range fragments {
		end := cumulative + f.Length
		if virtualOffset >= cumulative && virtualOffset < end {
			withinFragment := virtualOffset - cumulative
			if withinFragment+length > f.Length {
				return 0, fmt.Errorf("record at virtual offset %d spans a fragment boundary", virtualOffset)
			}
			return f.Offset + withinFragment, nil
		}
		cumulative = end
	}
	return 0, fmt.Errorf("virtual offset %d is beyond the end of $MFT's own data", virtualOffset)
}

// Attributes returns a LogicalIterator over fr's attributes, configured to resolve
// $ATTRIBUTE_LIST continuations and non-resident values through this filesystem. ctx is held by
// the returned iterator and used for every $ATTRIBUTE_LIST-continuation record load it performs.
func (fs *Filesystem) Attributes(ctx context.Context, fr *record.FileRecord) *attr.LogicalIterator {
	return attr.NewLogicalIterator(ctx, fr, fs, fs.reader, fs.bytesPerCluster)
}

// Close closes the underlying ByteSource.
func (fs *Filesystem) Close() error {
	return fs.source.Close()
}

// backgroundReaderAt adapts a ByteSource to the plain io.ReaderAt io.NewSectionReader requires,
// for the sequential, whole-volume Reader() view that fragment.Reader streams through. That path
// sits outside the cancellable I/O boundary (see Open), so it always reads with
// context.Background().
type backgroundReaderAt struct {
	source ByteSource
}

func (r backgroundReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return r.source.ReadAt(context.Background(), p, off)
}
