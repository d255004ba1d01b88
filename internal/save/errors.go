package save

import "errors"

var (
	// ErrFormat is returned when a buffer fails structural validation.
	// It is always wrapped with a label naming the offending buffer.
	ErrFormat = errors.New("not a valid Elden Ring save file")

	// ErrOutOfRange is returned when a section does not fit the buffer it
	// is applied to.
	ErrOutOfRange = errors.New("section out of range")

	// ErrNoOp is returned when a mutation would leave the buffer unchanged.
	ErrNoOp = errors.New("already correct")

	// ErrNoActiveSlot is returned when no save slot carries the active flag.
	ErrNoActiveSlot = errors.New("could not find active slot index")
)
