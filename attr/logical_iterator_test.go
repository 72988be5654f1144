package attr_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntfsgo/ntfs/attr"
	"github.com/ntfsgo/ntfs/record"
)

func buildAttributeListEntry(typ uint32, instance uint16, startingVCN uint64, baseRef record.FileReference) []byte {
	const entryLength = 26
	b := make([]byte, entryLength)
	binary.LittleEndian.PutUint32(b[0x00:], typ)
	binary.LittleEndian.PutUint16(b[0x04:], entryLength)
	b[0x06] = 0 // name length
	b[0x07] = entryLength
	binary.LittleEndian.PutUint64(b[0x08:], startingVCN)
	var refBytes [8]byte
	binary.LittleEndian.PutUint64(refBytes[:], baseRef.RecordNumber) // low 6 bytes are the record number
	binary.LittleEndian.PutUint16(refBytes[6:], baseRef.SequenceNumber)
	copy(b[0x10:0x18], refBytes[:])
	binary.LittleEndian.PutUint16(b[0x18:], instance)
	return b
}

func TestLogicalIterator_FollowsAttributeList(t *testing.T) {
	const baseRecordNumber = 10
	const extRecordNumber = 11
	const bytesPerCluster = 512

	siAttr := buildResidentAttribute(uint32(attr.TypeStandardInformation), 0, "", make([]byte, 8))

	listEntries := append(
		buildAttributeListEntry(uint32(attr.TypeStandardInformation), 0, 0, record.FileReference{RecordNumber: baseRecordNumber, SequenceNumber: 1}),
		buildAttributeListEntry(uint32(attr.TypeData), 5, 0, record.FileReference{RecordNumber: extRecordNumber, SequenceNumber: 1})...,
	)
	listAttr := buildResidentAttribute(uint32(attr.TypeAttributeList), 1, "", listEntries)

	baseRecord := buildFileRecordWithAttributes(baseRecordNumber, siAttr, listAttr)

	dataRuns := []byte{0x11, 0x02, 0x01} // one run, 2 clusters, starting at cluster 1
	dataAttr := buildNonResidentAttribute(uint32(attr.TypeData), 5, "", 0, 1, dataRuns, 1024, 1000, 1000)
	extRecord := buildFileRecordWithAttributes(extRecordNumber, dataAttr)

	loader := fakeLoader{records: map[uint64]record.FileRecord{extRecordNumber: extRecord}}
	source := bytes.NewReader(make([]byte, 4*bytesPerCluster))

	it := attr.NewLogicalIterator(context.Background(), &baseRecord, loader, source, bytesPerCluster)

	require.True(t, it.Next())
	ty, err := it.Attribute().Type()
	require.NoError(t, err)
	assert.Equal(t, attr.TypeStandardInformation, ty)

	require.True(t, it.Next())
	ty, err = it.Attribute().Type()
	require.NoError(t, err)
	assert.Equal(t, attr.TypeData, ty)
	assert.False(t, it.Attribute().IsResident())

	v, err := it.Attribute().Value(context.Background(), loader, source, bytesPerCluster)
	require.NoError(t, err)
	data, err := io.ReadAll(v)
	require.NoError(t, err)
	assert.Equal(t, 1000, len(data))

	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

// TestLogicalIterator_StitchesConnectedFragments covers the hardest case in the attribute layer:
// a single logical $DATA attribute whose value is split across two non-resident attributes living
// in two different non-base file records, connected by consecutive $ATTRIBUTE_LIST entries. It
// asserts the stitched Value reads both fragments back to back, in order, and that only one
// logical item is yielded for the whole connected group (the second entry is suppressed by the
// skip-key, not yielded as its own attribute).
func TestLogicalIterator_StitchesConnectedFragments(t *testing.T) {
	const baseRecordNumber = 20
	const firstExtRecordNumber = 21
	const secondExtRecordNumber = 22
	const bytesPerCluster = 512
	const totalDataSize = 1000 // less than 2*bytesPerCluster, to also exercise the size cutoff

	siAttr := buildResidentAttribute(uint32(attr.TypeStandardInformation), 0, "", make([]byte, 8))

	listEntries := append(append(
		buildAttributeListEntry(uint32(attr.TypeStandardInformation), 0, 0, record.FileReference{RecordNumber: baseRecordNumber, SequenceNumber: 1}),
		buildAttributeListEntry(uint32(attr.TypeData), 5, 0, record.FileReference{RecordNumber: firstExtRecordNumber, SequenceNumber: 1})...),
		buildAttributeListEntry(uint32(attr.TypeData), 5, 1, record.FileReference{RecordNumber: secondExtRecordNumber, SequenceNumber: 1})...,
	)
	listAttr := buildResidentAttribute(uint32(attr.TypeAttributeList), 1, "", listEntries)

	baseRecord := buildFileRecordWithAttributes(baseRecordNumber, siAttr, listAttr)

	// First fragment: cluster 1, declares the connected value's full size (1000 bytes).
	firstDataRuns := []byte{0x11, 0x01, 0x01}
	firstDataAttr := buildNonResidentAttribute(uint32(attr.TypeData), 5, "", 0, 0, firstDataRuns, 512, totalDataSize, totalDataSize)
	firstExtRecord := buildFileRecordWithAttributes(firstExtRecordNumber, firstDataAttr)

	// Second fragment: cluster 2. Connected attributes after the first report a zero data size.
	secondDataRuns := []byte{0x11, 0x01, 0x02} // one run, 1 cluster, starting at cluster 2
	secondDataAttr := buildNonResidentAttribute(uint32(attr.TypeData), 5, "", 1, 1, secondDataRuns, 512, 0, 0)
	secondExtRecord := buildFileRecordWithAttributes(secondExtRecordNumber, secondDataAttr)

	loader := fakeLoader{records: map[uint64]record.FileRecord{
		firstExtRecordNumber:  firstExtRecord,
		secondExtRecordNumber: secondExtRecord,
	}}

	// cluster 0 is not used by any fragment (the $ATTRIBUTE_LIST here is resident); fill cluster 1 and 2 with
	// distinguishable patterns so the order of concatenation is observable.
	source := make([]byte, 4*bytesPerCluster)
	for i := 0; i < bytesPerCluster; i++ {
		source[1*bytesPerCluster+i] = 0xAA
		source[2*bytesPerCluster+i] = 0xBB
	}
	src := bytes.NewReader(source)

	it := attr.NewLogicalIterator(context.Background(), &baseRecord, loader, src, bytesPerCluster)

	require.True(t, it.Next())
	ty, err := it.Attribute().Type()
	require.NoError(t, err)
	assert.Equal(t, attr.TypeStandardInformation, ty)

	require.True(t, it.Next())
	ty, err = it.Attribute().Type()
	require.NoError(t, err)
	assert.Equal(t, attr.TypeData, ty)
	assert.False(t, it.Attribute().IsResident())

	v, err := it.Attribute().Value(context.Background(), loader, src, bytesPerCluster)
	require.NoError(t, err)
	data, err := io.ReadAll(v)
	require.NoError(t, err)
	require.Equal(t, totalDataSize, len(data))

	// First bytesPerCluster bytes come from the first fragment (cluster 1, 0xAA); the rest from
	// the second fragment (cluster 2, 0xBB), confirming the fragments were concatenated in order.
	for i := 0; i < bytesPerCluster; i++ {
		assert.Equalf(t, byte(0xAA), data[i], "byte %d should come from the first fragment", i)
	}
	for i := bytesPerCluster; i < totalDataSize; i++ {
		assert.Equalf(t, byte(0xBB), data[i], "byte %d should come from the second fragment", i)
	}

	// The second attribute-list entry shares instance 5 with the first: it is the connected
	// attribute's continuation, not a second logical item, and is suppressed by the skip-key
	// rather than yielded again. Only one Next() yielded the $DATA attribute above.
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}
