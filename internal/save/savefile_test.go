package save

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IvarWithoutBones/er-savepatcher/internal/checksum"
)

const testSteamID = 76561197960287930

// testData builds a structurally valid save buffer with slot 0 active.
func testData(t *testing.T) []byte {
	t.Helper()

	data := make([]byte, SaveFileSize)
	copy(data, Magic)
	data[ActiveSection.Offset] = ActiveFlag

	name, level, seconds := slotSections(0)
	copy(data[name.Offset:], "Tarnished")
	data[level.Offset] = 42
	binary.LittleEndian.PutUint32(data[seconds.Offset:], 3_725) // 1h2m5s
	binary.LittleEndian.PutUint64(data[SteamIDSection.Offset:], testSteamID)
	return data
}

func TestValidate(t *testing.T) {
	t.Run("valid buffer", func(t *testing.T) {
		if err := Validate(testData(t), "input"); err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
	})

	t.Run("wrong size", func(t *testing.T) {
		err := Validate(testData(t)[:SaveFileSize-1], "input")
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		data := testData(t)
		copy(data, "XXX")
		err := Validate(data, "input")
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
	})

	t.Run("label names the buffer", func(t *testing.T) {
		err := Validate(nil, "generated data")
		if err == nil || !bytes.Contains([]byte(err.Error()), []byte("generated data")) {
			t.Fatalf("expected label in error, got %v", err)
		}
	})
}

func TestActiveSlot(t *testing.T) {
	t.Run("first set flag wins", func(t *testing.T) {
		data := testData(t)
		data[ActiveSection.Offset] = 0
		data[ActiveSection.Offset+2] = ActiveFlag

		sf, err := New(data, "input")
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if sf.ActiveSlot() != 2 {
			t.Fatalf("unexpected active slot: got %d want 2", sf.ActiveSlot())
		}
	})

	t.Run("no active slot", func(t *testing.T) {
		data := testData(t)
		data[ActiveSection.Offset] = 0
		if _, err := New(data, "input"); !errors.Is(err, ErrNoActiveSlot) {
			t.Fatalf("expected ErrNoActiveSlot, got %v", err)
		}
	})
}

func TestAccessors(t *testing.T) {
	sf, err := New(testData(t), "input")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if got, err := sf.Name(sf.Original()); err != nil || got != "Tarnished" {
		t.Fatalf("Name = %q, %v; want %q", got, err, "Tarnished")
	}
	if got, err := sf.Level(sf.Original()); err != nil || got != 42 {
		t.Fatalf("Level = %d, %v; want 42", got, err)
	}
	want := time.Hour + 2*time.Minute + 5*time.Second
	if got, err := sf.SecondsPlayed(sf.Original()); err != nil || got != want {
		t.Fatalf("SecondsPlayed = %v, %v; want %v", got, err, want)
	}
	if got, err := sf.SteamID(sf.Original()); err != nil || got != testSteamID {
		t.Fatalf("SteamID = %d, %v; want %d", got, err, uint64(testSteamID))
	}
	if got, err := sf.Checksum(sf.Original()); err != nil || got != checksum.Hex(make([]byte, checksum.Size)) {
		t.Fatalf("Checksum = %q, %v; want all-zero digest", got, err)
	}
}

func TestReplaceSteamID(t *testing.T) {
	t.Run("replaces only the ID bytes", func(t *testing.T) {
		sf, err := New(testData(t), "input")
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}

		if err := sf.ReplaceSteamID(testSteamID + 1); err != nil {
			t.Fatalf("ReplaceSteamID returned error: %v", err)
		}
		got, err := sf.SteamID(sf.Patched())
		if err != nil {
			t.Fatalf("SteamID returned error: %v", err)
		}
		if got != testSteamID+1 {
			t.Fatalf("unexpected steam ID: got %d want %d", got, uint64(testSteamID+1))
		}

		// Everything outside the ID section must be untouched.
		before, after := sf.Original(), sf.Patched()
		if !bytes.Equal(before[:SteamIDSection.Offset], after[:SteamIDSection.Offset]) {
			t.Fatalf("bytes before the steam ID section changed")
		}
		end := SteamIDSection.Offset + SteamIDSection.Length
		if !bytes.Equal(before[end:], after[end:]) {
			t.Fatalf("bytes after the steam ID section changed")
		}
	})

	t.Run("same ID is a no-op", func(t *testing.T) {
		sf, err := New(testData(t), "input")
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if err := sf.ReplaceSteamID(testSteamID); !errors.Is(err, ErrNoOp) {
			t.Fatalf("expected ErrNoOp, got %v", err)
		}
		if !bytes.Equal(sf.Original(), sf.Patched()) {
			t.Fatalf("no-op replacement mutated the working copy")
		}
	})
}

func TestRecalculateChecksum(t *testing.T) {
	sf, err := New(testData(t), "input")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	hexSum, err := sf.RecalculateChecksum()
	if err != nil {
		t.Fatalf("RecalculateChecksum returned error: %v", err)
	}

	header, err := SaveHeaderSection.Bytes(sf.Patched())
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	sum := checksum.Sum(header)
	if want := checksum.Hex(sum[:]); hexSum != want {
		t.Fatalf("unexpected digest: got %s want %s", hexSum, want)
	}
	if stored, err := sf.Checksum(sf.Patched()); err != nil || stored != hexSum {
		t.Fatalf("stored checksum = %s, %v; want %s", stored, err, hexSum)
	}

	// Immediately repeating the call must refuse to re-do correct work.
	if _, err := sf.RecalculateChecksum(); !errors.Is(err, ErrNoOp) {
		t.Fatalf("expected ErrNoOp on second call, got %v", err)
	}
}

// The end-to-end mutation sequence from a known-good starting state.
func TestPatchSequence(t *testing.T) {
	sf, err := New(testData(t), "input")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := sf.ReplaceSteamID(76561197960287931); err != nil {
		t.Fatalf("ReplaceSteamID returned error: %v", err)
	}
	hexSum, err := sf.RecalculateChecksum()
	if err != nil {
		t.Fatalf("RecalculateChecksum returned error: %v", err)
	}

	if got, err := sf.SteamID(sf.Patched()); err != nil || got != 76561197960287931 {
		t.Fatalf("SteamID = %d, %v; want 76561197960287931", got, err)
	}

	// The steam ID sits outside the save header region, so the digest is
	// that of the unchanged header bytes.
	header, err := SaveHeaderSection.Bytes(sf.Original())
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	sum := checksum.Sum(header)
	if want := checksum.Hex(sum[:]); hexSum != want {
		t.Fatalf("unexpected digest: got %s want %s", hexSum, want)
	}

	if err := Validate(sf.Patched(), "generated data"); err != nil {
		t.Fatalf("patched buffer failed validation: %v", err)
	}
}

func TestLoadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ER0000.sl2")
	out := filepath.Join(dir, "ER0000.patched.sl2")

	data := testData(t)
	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	sf, err := Load(in)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !bytes.Equal(sf.Original(), data) {
		t.Fatalf("loaded bytes differ from file contents")
	}

	if err := sf.Write(out); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip without mutation is not byte identical")
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.sl2")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})

	t.Run("truncated file", func(t *testing.T) {
		path := filepath.Join(dir, "short.sl2")
		if err := os.WriteFile(path, []byte("BND"), 0o644); err != nil {
			t.Fatalf("write input: %v", err)
		}
		if _, err := Load(path); !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
	})
}

func TestWriteRefusesInvalidWorkingCopy(t *testing.T) {
	sf, err := New(testData(t), "input")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	copy(sf.Patched(), "XXX") // corrupt the magic in the working copy

	out := filepath.Join(t.TempDir(), "broken.sl2")
	if err := sf.Write(out); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no partial output file, stat err = %v", err)
	}
}
