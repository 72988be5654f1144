// Package value implements the two kinds of attribute value reader that don't need anything
// beyond the single attribute they belong to: a resident value (already sitting in the file
// record's buffer) and a plain non-resident value (backed by one attribute's own data runs). A
// non-resident value whose data is split across several attribute-list-connected attributes is
// assembled one layer up, in package attr, since doing that requires attr's own record-loading
// and list-iteration state.
package value

import (
	"io"

	"github.com/ntfsgo/ntfs/fragment"
	"github.com/ntfsgo/ntfs/runs"
)

// A Value is a readable attribute value of known total length.
type Value interface {
	io.Reader
	// Length returns the value's total size in bytes, as declared by its attribute.
	Length() uint64
}

// Slice is a resident attribute's value: a byte slice living directly inside its file record.
type Slice struct {
	r   *io.SectionReader
	len int64
}

// NewSlice wraps b, the bytes of a resident attribute's value, as a Value. b is not copied.
func NewSlice(b []byte) *Slice {
	return &Slice{r: io.NewSectionReader(sliceReaderAt(b), 0, int64(len(b))), len: int64(len(b))}
}

func (s *Slice) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *Slice) Length() uint64              { return uint64(s.len) }

type sliceReaderAt []byte

func (s sliceReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(s)) {
		return 0, io.EOF
	}
	n := copy(p, s[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// NonResident is a non-resident attribute's value, backed by a single attribute's own data run
// list, decoded and translated to byte fragments by the runs package.
type NonResident struct {
	r   io.Reader
	len uint64
}

// NewNonResident builds a Value that streams the data described by dataRuns, a decoded data run
// list, reading clusters of size bytesPerCluster from src. dataSize is the attribute's declared
// value size; reads stop there even though the last data run's cluster may extend further (NTFS
// pads runs up to a whole cluster).
func NewNonResident(src io.ReadSeeker, dataRuns []runs.Run, bytesPerCluster int, dataSize uint64) *NonResident {
	return NewFromFragments(src, runs.ToFragments(dataRuns, bytesPerCluster), dataSize)
}

// NewFromFragments builds a Value directly from an already-resolved fragment list. It is the
// primitive NewNonResident builds on, and is also used to assemble a value whose data runs are
// split across several attribute-list-connected attributes: the caller decodes and translates
// each connected attribute's own data runs and concatenates the resulting fragment lists before
// calling here, since each connected non-resident attribute's own run list has absolute (not
// relative-to-the-previous-attribute) cluster addressing.
func NewFromFragments(src io.ReadSeeker, frags []fragment.Fragment, dataSize uint64) *NonResident {
	return &NonResident{
		r:   io.LimitReader(fragment.NewReader(src, frags), int64(dataSize)),
		len: dataSize,
	}
}

func (n *NonResident) Read(p []byte) (int, error) { return n.r.Read(p) }
func (n *NonResident) Length() uint64              { return n.len }
