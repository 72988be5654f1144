package structured_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntfsgo/ntfs/structured"
)

func decodeHex(t *testing.T, s string) []byte {
	input, err := hex.DecodeString(s)
	require.Nilf(t, err, "unable to convert input hex to []byte: %v", err)
	return input
}

func TestFileAttribute(t *testing.T) {
	a := structured.FileAttribute(0x83)

	assert.True(t, a.Is(structured.FileAttributeReadOnly))
	assert.True(t, a.Is(structured.FileAttributeHidden))
	assert.True(t, a.Is(structured.FileAttributeNormal))
	assert.False(t, a.Is(structured.FileAttributeDevice))
	assert.False(t, a.Is(structured.FileAttributeCompressed))
}

func TestDecodeStandardInformation(t *testing.T) {
	input := decodeHex(t, "8d07703c89d7d5018d07703c89d6d5018d07703c89d6d5018d07703c89d6d501200000000000A30005000000010000000070000001100000000010000000000028820f4b05000000")
	out, err := structured.DecodeStandardInformation(input)
	require.Nilf(t, err, "could not decode attribute: %v", err)
	expected := structured.StandardInformation{
		Creation:                time.Date(2020, time.January, 30, 16, 20, 50, 176398100, time.UTC),
		FileLastModified:        time.Date(2020, time.January, 29, 9, 48, 19, 13620500, time.UTC),
		MftLastModified:         time.Date(2020, time.January, 29, 9, 48, 19, 13620500, time.UTC),
		LastAccess:              time.Date(2020, time.January, 29, 9, 48, 19, 13620500, time.UTC),
		FileAttributes:          structured.FileAttribute(32),
		MaximumNumberOfVersions: 10682368,
		VersionNumber:           5,
		ClassID:                 1,
		OwnerID:                 28672,
		SecurityID:              4097,
		QuotaCharged:            1048576,
		UpdateSequenceNumber:    22734144040,
	}
	assert.Equal(t, expected, out)
}

func TestDecodeStandardInformation_PreNTFS3(t *testing.T) {
	input := decodeHex(t, "8d07703c89d7d5018d07703c89d6d5018d07703c89d6d5018d07703c89d6d501200000000000A3000500000001000000")
	out, err := structured.DecodeStandardInformation(input)
	require.Nilf(t, err, "could not decode attribute: %v", err)
	assert.Equal(t, uint32(0), out.OwnerID)
	assert.Equal(t, uint32(0), out.SecurityID)
	assert.Equal(t, uint64(0), out.QuotaCharged)
	assert.Equal(t, uint64(0), out.UpdateSequenceNumber)
}

func TestDecodeStandardInformation_TooShort(t *testing.T) {
	_, err := structured.DecodeStandardInformation(make([]byte, 10))
	assert.Error(t, err)
}
