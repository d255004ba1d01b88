package save

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Section describes a fixed (offset, length) byte range within a save
// buffer. Sections are plain data: declared once in the layout table and
// never mutated themselves, only the buffer bytes they describe are.
type Section struct {
	Offset int
	Length int
}

// Bytes returns the section's bytes as a subslice of data. The slice
// aliases data and stays valid only as long as data does.
func (s Section) Bytes(data []byte) ([]byte, error) {
	end := s.Offset + s.Length
	if s.Offset < 0 || s.Length < 0 || end > len(data) {
		return nil, fmt.Errorf("%w: [%#x:%#x) in %d byte buffer", ErrOutOfRange, s.Offset, end, len(data))
	}
	return data[s.Offset:end], nil
}

// Text returns the section interpreted as a character run, with trailing
// NUL padding trimmed.
func (s Section) Text(data []byte) (string, error) {
	b, err := s.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(b, "\x00")), nil
}

// Uint32 returns the section interpreted as a little-endian uint32.
// The section length must be exactly 4; anything else is a layout bug.
func (s Section) Uint32(data []byte) (uint32, error) {
	b, err := s.Bytes(data)
	if err != nil {
		return 0, err
	}
	if len(b) != 4 {
		return 0, fmt.Errorf("section at %#x is %d bytes, cannot hold a uint32", s.Offset, len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 returns the section interpreted as a little-endian uint64.
func (s Section) Uint64(data []byte) (uint64, error) {
	b, err := s.Bytes(data)
	if err != nil {
		return 0, err
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("section at %#x is %d bytes, cannot hold a uint64", s.Offset, len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Replace overwrites the section's bytes in data with value. The value
// must be exactly the section's length; the buffer is never resized and
// bytes outside the range are never touched.
func (s Section) Replace(data, value []byte) error {
	b, err := s.Bytes(data)
	if err != nil {
		return err
	}
	if len(value) != s.Length {
		return fmt.Errorf("replacement for section at %#x is %d bytes, want %d", s.Offset, len(value), s.Length)
	}
	copy(b, value)
	return nil
}
