package volume

import (
	"context"
	"errors"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MappedSource is a ByteSource backed by a read-only memory mapping of a volume image file.
// It's intended for forensic work against static disk images, where mapping the whole file once
// is cheaper than repeated positioned reads.
type MappedSource struct {
	f    *os.File
	data mmap.MMap
}

// OpenMapped memory-maps path (read-only) and returns a MappedSource over it. path is rewritten
// through DevicePath first, so a MappedSource can be pointed at a raw volume the same way
// OpenFile can, though mapping a live block device is unusual and mostly useful for image files.
func OpenMapped(path string) (*MappedSource, error) {
	f, err := os.Open(DevicePath(path))
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &MappedSource{f: f, data: data}, nil
}

func (s *MappedSource) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, errors.New("volume: negative offset")
	}
	if off >= int64(len(s.data)) {
		return 0, errors.New("volume: offset beyond end of mapped data")
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, errors.New("volume: short read at end of mapped data")
	}
	return n, nil
}

func (s *MappedSource) Close() error {
	if err := s.data.Unmap(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
