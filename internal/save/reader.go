package save

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Load reads the save file at path into a new SaveFile. The file is mapped
// read-only where mmap is available and copied out of the mapping, so the
// SaveFile always owns its buffers; when mmap is unavailable it falls back
// to ReadAt-based loading. The file handle is released on every path.
func Load(path string) (*SaveFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%s: %w", path, ErrFormat)
	}
	size := int(size64)

	if size > 0 {
		if data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED); err == nil {
			sf, newErr := New(data, path)
			_ = unix.Munmap(data)
			return sf, newErr
		}
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return New(data, path)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Write validates the working copy and writes it to path. Nothing is
// created on disk when validation fails, so a broken patch can never
// clobber an existing file.
func (s *SaveFile) Write(path string) error {
	if err := Validate(s.patched, "generated data"); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(s.patched); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
