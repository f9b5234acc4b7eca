package eebridge

import (
	"errors"
	"fmt"
)

// Chunk failures. Each one is reported to the host and leaves the session
// running with its offset unchanged.
var (
	ErrOversized      = errors.New("chunk length exceeds chunk size")
	ErrShortPayload   = errors.New("host sent fewer bytes than declared")
	ErrChecksum       = errors.New("checksum mismatch")
	ErrBus            = errors.New("I2C transaction failed")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoHostAck      = errors.New("host did not acknowledge chunk")

	// ErrPageBoundary is the cause of an ErrBus reject for a write that
	// would roll over inside the EEPROM's page buffer.
	ErrPageBoundary = errors.New("write crosses a page boundary")
)

// ChunkError describes a rejected chunk.
type ChunkError struct {
	Op     string // "write" or "read"
	Offset uint16
	Length int
	Err    error // one of the Err* kinds above
	Cause  error // underlying bus error, if any
}

func (e *ChunkError) Error() string {
	s := fmt.Sprintf("%s chunk at 0x%04X (%d bytes): %v", e.Op, e.Offset, e.Length, e.Err)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *ChunkError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
