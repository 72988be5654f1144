package structured_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntfsgo/ntfs/structured"
)

func TestDecodeVolumeName(t *testing.T) {
	input := decodeHex(t, "4400610074006100")
	out, err := structured.DecodeVolumeName(input)
	require.Nilf(t, err, "could not decode attribute: %v", err)
	assert.Equal(t, structured.VolumeName{Name: "Data"}, out)
}

func TestDecodeVolumeName_Empty(t *testing.T) {
	out, err := structured.DecodeVolumeName(nil)
	require.Nilf(t, err, "could not decode attribute: %v", err)
	assert.Equal(t, structured.VolumeName{}, out)
}

func TestDecodeVolumeInformation(t *testing.T) {
	input := decodeHex(t, "000000000000000003010100")
	out, err := structured.DecodeVolumeInformation(input)
	require.Nilf(t, err, "could not decode attribute: %v", err)
	expected := structured.VolumeInformation{
		MajorVersion: 3,
		MinorVersion: 1,
		Flags:        structured.VolumeFlagDirty,
	}
	assert.Equal(t, expected, out)
	assert.True(t, out.Flags.Is(structured.VolumeFlagDirty))
	assert.False(t, out.Flags.Is(structured.VolumeFlagMounted))
}

func TestDecodeVolumeInformation_TooShort(t *testing.T) {
	_, err := structured.DecodeVolumeInformation(make([]byte, 4))
	assert.Error(t, err)
}

func TestDecodeObjectID_JustObjectID(t *testing.T) {
	b := make([]byte, 16)
	for i := range b {
		b[i] = byte(i + 1)
	}
	out, err := structured.DecodeObjectID(b)
	require.Nilf(t, err, "could not decode attribute: %v", err)
	var expectedObjectID [16]byte
	copy(expectedObjectID[:], b)
	assert.Equal(t, expectedObjectID, out.ObjectID)
	assert.Equal(t, [16]byte{}, out.BirthVolumeID)
}

func TestDecodeObjectID_Full(t *testing.T) {
	b := make([]byte, 64)
	for i := range b {
		b[i] = byte(i)
	}
	out, err := structured.DecodeObjectID(b)
	require.Nilf(t, err, "could not decode attribute: %v", err)
	var expectedDomainID [16]byte
	copy(expectedDomainID[:], b[48:64])
	assert.Equal(t, expectedDomainID, out.DomainID)
}

func TestDecodeObjectID_TooShort(t *testing.T) {
	_, err := structured.DecodeObjectID(make([]byte, 4))
	assert.Error(t, err)
}
