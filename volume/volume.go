// Package volume provides ByteSource implementations for reading an NTFS volume image, whether
// that's a live block device, a disk image file, or a memory-mapped forensic image.
package volume

import (
	"context"
	"os"
	"runtime"
)

// A ByteSource is a random-access, read-only view of an NTFS volume's raw bytes. It is the
// abstraction Filesystem and attr.LogicalIterator read through, so the same parsing code works
// whether the bytes come from a device file, a plain disk image, or a memory-mapped one. ReadAt
// takes ctx so a caller driving a lookup from a cancellable request can abort a blocking device
// read; implementations backed by data already resident in memory may only consult it cheaply
// (ctx.Err()) rather than interrupt an in-flight copy.
type ByteSource interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Close() error
}

// FileSource is a ByteSource backed by an *os.File, read with positioned reads (no seeking, so
// it's safe to share across concurrent readers).
type FileSource struct {
	f *os.File
}

// OpenFile opens path for positioned, read-only access. On Windows, a bare drive letter or
// volume name (e.g. "C:") is rewritten to its \\.\ device path, matching how Windows identifies
// raw volumes; on other platforms path is used as given (e.g. /dev/sdb1).
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(DevicePath(path))
	if err != nil {
		return nil, err
	}
	return &FileSource{f: f}, nil
}

// DevicePath rewrites path into the form the current OS expects for raw volume access. It is
// exported so command-line tools can report the path they actually tried to open.
func DevicePath(path string) string {
	if runtime.GOOS == "windows" && len(path) > 0 && path[0] != '\\' {
		return `\\.\` + path
	}
	return path
}

func (s *FileSource) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.f.ReadAt(p, off)
}

func (s *FileSource) Close() error {
	return s.f.Close()
}
