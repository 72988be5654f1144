// Package binutil contains some helpful utilities for reading binary data from byte slices.
package binutil

import "encoding/binary"

// Duplicate creates a full copy of the input byte slice.
func Duplicate(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// IsOnlyZeroes return true when the input data is all bytes of zero value and false if any of the bytes has a nonzero
// value.
func IsOnlyZeroes(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Reader helps to read data from a byte slice using an offset and a data length (instead two offsets when using
// a slice expression). For example b[2:4] yields the same as Read(2, 2) using a Reader over b. Also some convenient
// methods are provided to read integer values using a binary.ByteOrder from the slice directly.
//
// Note that methods that return a []byte may not necessarily copy the data, so modifying the returned slice may also
// affect the data in the Reader.
//
// Reader's methods assume the caller has already validated that offset/length fit within the data (the usual case
// once a containing structure's own declared length has been checked): they panic otherwise, same as a raw slice
// expression would. For offsets and lengths that come from the bytes being parsed themselves, and so must be
// distrusted, use CheckedSlice or CheckedBounds instead.
type Reader struct {
	data []byte
	bo   binary.ByteOrder
}

// NewReader creates a Reader over data using the specified binary.ByteOrder. The data slice is stored directly,
// no copy is made, so modifying the original slice will also affect the returned Reader.
func NewReader(data []byte, bo binary.ByteOrder) *Reader {
	return &Reader{data: data, bo: bo}
}

// NewLittleEndianReader creates a Reader over data using binary.LittleEndian. The data slice is stored directly,
// no copy is made, so modifying the original slice will also affect the returned Reader.
func NewLittleEndianReader(data []byte) *Reader {
	return NewReader(data, binary.LittleEndian)
}

// Data returns all data inside this Reader.
func (r *Reader) Data() []byte {
	return r.data
}

// ByteOrder returns the ByteOrder for this Reader.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.bo
}

// Length returns the length of the contained data.
func (r *Reader) Length() int {
	return len(r.data)
}

// Read reads an amount of bytes as specified by length from the provided offset. The returned slice's length is the
// same as the specified length.
func (r *Reader) Read(offset int, length int) []byte {
	return r.data[offset : offset+length]
}

// Reader returns a new Reader over the data read by Read(offset, length) using the same ByteOrder as this reader.
// There is no guarantee a copy of the data is made, so modifying the new reader's data may affect the original.
func (r *Reader) Reader(offset int, length int) *Reader {
	return &Reader{data: r.data[offset : offset+length], bo: r.bo}
}

// Byte returns the byte at the position indicated by the offset.
func (r *Reader) Byte(offset int) byte {
	return r.data[offset]
}

// ReadFrom returns all data starting at the specified offset.
func (r *Reader) ReadFrom(offset int) []byte {
	return r.data[offset:]
}

// Uint16 reads 2 bytes from the provided offset and parses them into a uint16 using the reader's ByteOrder.
func (r *Reader) Uint16(offset int) uint16 {
	return r.bo.Uint16(r.Read(offset, 2))
}

// Uint32 reads 4 bytes from the provided offset and parses them into a uint32 using the reader's ByteOrder.
func (r *Reader) Uint32(offset int) uint32 {
	return r.bo.Uint32(r.Read(offset, 4))
}

// Uint64 reads 8 bytes from the provided offset and parses them into a uint64 using the reader's ByteOrder.
func (r *Reader) Uint64(offset int) uint64 {
	return r.bo.Uint64(r.Read(offset, 8))
}

// Int64 reads 8 bytes from the provided offset and parses them into a signed int64 using the reader's ByteOrder.
func (r *Reader) Int64(offset int) int64 {
	return int64(r.Uint64(offset))
}

// CheckedSlice returns data[offset:offset+length] and true, or (nil, false) if that range doesn't fit within data,
// instead of panicking like a plain slice expression (or Reader.Read) would. offset and length are typically values
// just decoded from the data itself, e.g. a name offset/length pair or a resident value offset/length pair.
func CheckedSlice(data []byte, offset, length int) ([]byte, bool) {
	if !CheckedBounds(offset, length, len(data)) {
		return nil, false
	}
	return data[offset : offset+length], true
}

// CheckedBounds reports whether the half-open range [offset, offset+length) fits within [0, limit), guarding
// against negative values and overflow in offset+length.
func CheckedBounds(offset, length, limit int) bool {
	if offset < 0 || length < 0 || offset > limit {
		return false
	}
	return length <= limit-offset
}
