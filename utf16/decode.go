// Package utf16 decodes the unterminated, byte-oriented UTF-16 strings NTFS uses for
// attribute names, $FILE_NAME components, and other on-disk text.
package utf16

import (
	"encoding/binary"
	"errors"

	"golang.org/x/text/encoding/unicode"
)

// DecodeString decodes b, a sequence of UTF-16 code units encoded with the given byte order,
// into a Go string. b must have an even length; an empty b decodes to "".
func DecodeString(b []byte, bo binary.ByteOrder) (string, error) {
	if len(b)%2 != 0 {
		return "", errors.New("input data must have even number of bytes")
	}
	if len(b) == 0 {
		return "", nil
	}

	endianness := unicode.LittleEndian
	if bo == binary.BigEndian {
		endianness = unicode.BigEndian
	}

	decoded, err := unicode.UTF16(endianness, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// DecodeStringLE is a shorthand for DecodeString(b, binary.LittleEndian), the byte order every
// on-disk NTFS text field uses.
func DecodeStringLE(b []byte) (string, error) {
	return DecodeString(b, binary.LittleEndian)
}
