// Package runs decodes NTFS data run lists — the compact, variable-width encoding a non-resident
// attribute uses to describe which volume clusters hold its data — and translates them into
// absolute byte fragments a fragment.Reader can stream.
package runs

import (
	"encoding/binary"
	"fmt"

	"github.com/ntfsgo/ntfs/binutil"
	"github.com/ntfsgo/ntfs/fragment"
)

// A Run is one data run: a span of LengthInClusters clusters starting OffsetCluster clusters
// after the previous run's start (or after the start of the volume, for the first run in the
// list). OffsetCluster can be negative, which is how a sparse or compressed attribute's runlist
// re-anchors to an earlier cluster.
type Run struct {
	OffsetCluster    int64
	LengthInClusters uint64
}

// Decode parses b, the raw byte form of a non-resident attribute's data run list, into a slice
// of Run. Each Run's OffsetCluster is relative to the one before it; decode the full list and
// use ToFragments to turn that into absolute positions.
//
// The list ends at either a zero header byte or the end of b, whichever comes first — NTFS pads
// the data run area up to the attribute's declared length with zero bytes, so a zero byte is not
// itself an error.
func Decode(b []byte) ([]Run, error) {
	if len(b) == 0 {
		return []Run{}, nil
	}

	result := make([]Run, 0)
	for len(b) > 0 {
		r := binutil.NewLittleEndianReader(b)
		header := r.Byte(0)
		if header == 0 {
			break
		}

		lengthLength := int(header &^ 0xF0)
		offsetLength := int(header >> 4)
		dataLength := offsetLength + lengthLength

		headerAndDataLength := dataLength + 1
		if len(b) < headerAndDataLength {
			return nil, fmt.Errorf("runs: expected at least %d bytes of data run data but got %d", headerAndDataLength, len(b))
		}

		runData := r.Reader(1, dataLength)

		lengthBytes := runData.Read(0, lengthLength)
		length := binary.LittleEndian.Uint64(padTo(lengthBytes, 8))

		offsetBytes := runData.Read(lengthLength, offsetLength)
		offset := int64(binary.LittleEndian.Uint64(padTo(offsetBytes, 8)))

		result = append(result, Run{OffsetCluster: offset, LengthInClusters: length})

		b = r.ReadFrom(headerAndDataLength)
	}

	return result, nil
}

// ToFragments translates runs, whose offsets are relative and measured in clusters, into
// fragment.Fragment values with absolute byte offsets, given the volume's cluster size. Reads
// through the resulting fragments will not stop exactly at an attribute's actual data size —
// cluster runs round up — so callers should limit the total bytes read (for example with
// io.LimitReader) to the attribute's declared size.
func ToFragments(runs []Run, bytesPerCluster int) []fragment.Fragment {
	frags := make([]fragment.Fragment, len(runs))
	previousOffsetCluster := int64(0)
	for i, run := range runs {
		absoluteOffsetCluster := previousOffsetCluster + run.OffsetCluster
		frags[i] = fragment.Fragment{
			Offset: absoluteOffsetCluster * int64(bytesPerCluster),
			Length: int64(run.LengthInClusters) * int64(bytesPerCluster),
		}
		previousOffsetCluster = absoluteOffsetCluster
	}
	return frags
}

// padTo pads data to length bytes, sign-extending with 0xFF if data's most significant bit is
// set (so a negative run offset encoded in fewer bytes than a full int64 still decodes correctly
// once widened).
func padTo(data []byte, length int) []byte {
	if len(data) >= length {
		return data
	}
	result := make([]byte, length)
	if len(data) == 0 {
		return result
	}
	copy(result, data)
	if data[len(data)-1]&0b10000000 == 0b10000000 {
		for i := len(data); i < length; i++ {
			result[i] = 0xFF
		}
	}
	return result
}
