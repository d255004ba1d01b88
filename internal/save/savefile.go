// Package save implements reading and patching of Elden Ring save files.
//
// A save file is a fixed-size binary blob; all knowledge about its layout
// lives in a static table of named sections (layout.go). SaveFile keeps two
// copies of the blob: the original as loaded, used only for comparison, and
// the working copy that mutations apply to. After a mutation the stored
// checksum no longer matches the save header region until
// RecalculateChecksum reconciles it.
package save

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/IvarWithoutBones/er-savepatcher/internal/checksum"
)

// SaveFile owns the raw bytes of one save file. The two buffers are never
// aliased; accessors take an explicit buffer so the same projection can be
// applied to either copy when reporting before/after values.
type SaveFile struct {
	original []byte // as loaded, never mutated
	patched  []byte // working copy, persisted by Write

	activeSlot     int
	nameSection    Section
	levelSection   Section
	secondsSection Section
}

// New builds a SaveFile from raw file bytes. The bytes are validated
// structurally and the active slot located up front; failure of either
// means the file is not a usable save.
func New(data []byte, label string) (*SaveFile, error) {
	if err := Validate(data, label); err != nil {
		return nil, err
	}

	s := &SaveFile{
		original: append([]byte(nil), data...),
		patched:  append([]byte(nil), data...),
	}

	slot, err := findActiveSlot(s.original)
	if err != nil {
		return nil, err
	}
	s.activeSlot = slot
	s.nameSection, s.levelSection, s.secondsSection = slotSections(slot)
	return s, nil
}

// Validate checks the structural invariants of a save buffer: exact file
// size and the "BND" magic tag. The label names the buffer in the error so
// load-time and pre-write failures can be told apart.
func Validate(data []byte, label string) error {
	magic, err := HeaderBNDSection.Text(data)
	if err != nil || magic != Magic || len(data) != SaveFileSize {
		return fmt.Errorf("%s: %w", label, ErrFormat)
	}
	return nil
}

// findActiveSlot scans the active flags section for the first slot marked
// active. A file without one is corrupt or unsupported.
func findActiveSlot(data []byte) (int, error) {
	flags, err := ActiveSection.Bytes(data)
	if err != nil {
		return 0, err
	}
	for i, flag := range flags {
		if flag == ActiveFlag {
			return i, nil
		}
	}
	return 0, ErrNoActiveSlot
}

// Original returns the buffer as it was loaded.
func (s *SaveFile) Original() []byte { return s.original }

// Patched returns the working copy.
func (s *SaveFile) Patched() []byte { return s.patched }

// ActiveSlot returns the slot index located at load time.
func (s *SaveFile) ActiveSlot() int { return s.activeSlot }

// Name returns the character name of the active slot.
func (s *SaveFile) Name(data []byte) (string, error) {
	return s.nameSection.Text(data)
}

// Level returns the character level of the active slot.
func (s *SaveFile) Level(data []byte) (uint8, error) {
	b, err := s.levelSection.Bytes(data)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// SecondsPlayed returns the active slot's play time.
func (s *SaveFile) SecondsPlayed(data []byte) (time.Duration, error) {
	secs, err := s.secondsSection.Uint32(data)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// SteamID returns the Steam ID the save file is bound to.
func (s *SaveFile) SteamID(data []byte) (uint64, error) {
	return SteamIDSection.Uint64(data)
}

// Checksum returns the stored save header checksum as lowercase hex.
func (s *SaveFile) Checksum(data []byte) (string, error) {
	b, err := SaveHeaderChecksumSection.Bytes(data)
	if err != nil {
		return "", err
	}
	return checksum.Hex(b), nil
}

// ChecksumMatches reports whether the stored checksum equals a fresh
// digest of the save header region of data.
func (s *SaveFile) ChecksumMatches(data []byte) (bool, error) {
	header, err := SaveHeaderSection.Bytes(data)
	if err != nil {
		return false, err
	}
	sum := checksum.Sum(header)

	stored, err := s.Checksum(data)
	if err != nil {
		return false, err
	}
	return stored == checksum.Hex(sum[:]), nil
}

// ReplaceSteamID overwrites the Steam ID in the working copy with id,
// encoded little-endian. Replacing an ID with itself is refused so a
// redundant run cannot report success.
func (s *SaveFile) ReplaceSteamID(id uint64) error {
	current, err := s.SteamID(s.patched)
	if err != nil {
		return err
	}
	if current == id {
		return fmt.Errorf("steam ID %d is %w", id, ErrNoOp)
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	return SteamIDSection.Replace(s.patched, buf[:])
}

// RecalculateChecksum digests the save header region of the working copy,
// stores the result in the checksum section and returns it as lowercase
// hex. A stored checksum that already matches is refused; after a
// successful call the working copy is internally consistent again.
func (s *SaveFile) RecalculateChecksum() (string, error) {
	header, err := SaveHeaderSection.Bytes(s.patched)
	if err != nil {
		return "", err
	}
	sum := checksum.Sum(header)
	hexSum := checksum.Hex(sum[:])

	stored, err := s.Checksum(s.patched)
	if err != nil {
		return "", err
	}
	if stored == hexSum {
		return "", fmt.Errorf("save header checksum is %w", ErrNoOp)
	}

	if err := SaveHeaderChecksumSection.Replace(s.patched, sum[:]); err != nil {
		return "", err
	}
	return hexSum, nil
}
