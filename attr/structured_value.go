package attr

import (
	"context"
	"io"

	"github.com/ntfsgo/ntfs/ntfserr"
	"github.com/ntfsgo/ntfs/record"
)

// ResidentStructuredValue decodes a's resident value using decode, first checking that a is of
// the expected type and is in fact resident. Go has no equivalent of associating a constant with
// a type the way the original implementation's trait bound does, so the expected type and the
// decoder are both supplied explicitly; package structured provides one decode function per
// structured value kind, meant to be passed here directly, e.g.:
//
//	si, err := attr.ResidentStructuredValue(a, attr.TypeStandardInformation, structured.DecodeStandardInformation)
func ResidentStructuredValue[S any](a *Attribute, expected Type, decode func([]byte) (S, error)) (S, error) {
	var zero S

	ty, err := a.Type()
	if err != nil {
		return zero, err
	}
	if ty != expected {
		return zero, &ntfserr.AttributeOfDifferentType{Position: a.Position(), Expected: uint32(expected), Actual: uint32(ty)}
	}

	rv, err := a.ResidentValue()
	if err != nil {
		return zero, err
	}
	data, err := io.ReadAll(rv)
	if err != nil {
		return zero, err
	}
	return decode(data)
}

// StructuredValue decodes a's value (resident or not, connected across multiple attributes or
// not) using decode, after checking a is of the expected type. source, bytesPerCluster, and
// loader are used exactly as in Attribute.Value.
func StructuredValue[S any](ctx context.Context, a *Attribute, expected Type, loader record.Loader, source io.ReadSeeker, bytesPerCluster int, decode func([]byte) (S, error)) (S, error) {
	var zero S

	ty, err := a.Type()
	if err != nil {
		return zero, err
	}
	if ty != expected {
		return zero, &ntfserr.AttributeOfDifferentType{Position: a.Position(), Expected: uint32(expected), Actual: uint32(ty)}
	}

	v, err := a.Value(ctx, loader, source, bytesPerCluster)
	if err != nil {
		return zero, err
	}
	data, err := io.ReadAll(v)
	if err != nil {
		return zero, err
	}
	return decode(data)
}
