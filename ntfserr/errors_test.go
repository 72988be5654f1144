package ntfserr_test

import (
	"errors"
	"testing"

	"github.com/ntfsgo/ntfs/ntfserr"
	"github.com/stretchr/testify/assert"
)

func TestUnsupportedAttributeType_Error(t *testing.T) {
	var err error = &ntfserr.UnsupportedAttributeType{Position: 1024, Actual: 0x1234}
	assert.Contains(t, err.Error(), "0x1234")
	assert.Contains(t, err.Error(), "1024")
}

func TestInvalidAttributeNameOffset_Error(t *testing.T) {
	err := &ntfserr.InvalidAttributeNameOffset{Position: 16, Expected: 60, Actual: 40}
	assert.Contains(t, err.Error(), "60")
	assert.Contains(t, err.Error(), "40")
}

func TestInvalidAttributeNameLength_Error(t *testing.T) {
	err := &ntfserr.InvalidAttributeNameLength{Position: 16, Expected: 70, Actual: 40}
	assert.Contains(t, err.Error(), "70")
	assert.Contains(t, err.Error(), "40")
}

func TestInvalidResidentAttributeValueOffset_Error(t *testing.T) {
	err := &ntfserr.InvalidResidentAttributeValueOffset{Position: 16, Expected: 200, Actual: 80}
	assert.Contains(t, err.Error(), "200")
	assert.Contains(t, err.Error(), "80")
}

func TestInvalidResidentAttributeValueLength_Error(t *testing.T) {
	err := &ntfserr.InvalidResidentAttributeValueLength{Position: 16, Expected: 200, Actual: 80}
	assert.Contains(t, err.Error(), "200")
	assert.Contains(t, err.Error(), "80")
}

func TestUnexpectedNonResidentAttribute_Error(t *testing.T) {
	err := &ntfserr.UnexpectedNonResidentAttribute{Position: 512}
	assert.Contains(t, err.Error(), "512")
}

func TestAttributeOfDifferentType_Error(t *testing.T) {
	err := &ntfserr.AttributeOfDifferentType{Position: 16, Expected: 0x30, Actual: 0x80}
	assert.Contains(t, err.Error(), "0x30")
	assert.Contains(t, err.Error(), "0x80")
}

func TestAttributeNotFound_Error(t *testing.T) {
	err := &ntfserr.AttributeNotFound{Position: 16, Instance: 3, Type: 0x80}
	assert.Contains(t, err.Error(), "3")
	assert.Contains(t, err.Error(), "0x80")
}

func TestInvalidAttributeLength_Error(t *testing.T) {
	err := &ntfserr.InvalidAttributeLength{Position: 48, Length: 0}
	assert.Contains(t, err.Error(), "48")
}

// Error types in this package are pointer structs usable with errors.As, the way *fs.PathError
// is; this checks it for AttributeNotFound.
func TestErrorsAs(t *testing.T) {
	var wrapped error = errors.New("wrapped: ")
	_ = wrapped

	var target *ntfserr.AttributeNotFound
	var err error = &ntfserr.AttributeNotFound{Position: 1, Instance: 1, Type: 1}
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, uint64(1), target.Position)
}
