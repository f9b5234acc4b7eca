package eebridge

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mode selects which chunk handler a session dispatches to.
type Mode int

const (
	ModeWrite Mode = iota
	ModeRead
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeRead:
		return "read"
	default:
		return "unknown"
	}
}

// Session is one run of a mode from entry until the host sends "rst". It
// owns the address offset, which starts at zero.
type Session struct {
	ID   uuid.UUID
	Mode Mode

	offset uint16
	link   *link
	eeprom *EEPROM
	cfg    Config
	log    *zap.SugaredLogger

	stats SessionStats
}

// SessionStats counts what a session moved.
type SessionStats struct {
	Accepted int // chunks transferred
	Rejected int // chunks refused or abandoned
	Bytes    int // offset advance summed over accepted chunks
}

// Offset returns the address the next chunk transfers at.
func (s *Session) Offset() uint16 { return s.offset }

// Stats returns the chunk counters accumulated so far.
func (s *Session) Stats() SessionStats { return s.stats }

// Run dispatches commands until the host resets the session. It returns nil
// on "rst", and the transport error if the serial link fails.
func (s *Session) Run(ctx context.Context) error {
	s.log.Infow("session", "status", "started", "mode", s.Mode, "id", s.ID)
	defer func() {
		s.log.Infow("session", "status", "ended", "mode", s.Mode, "id", s.ID,
			"offset", s.offset, "accepted", s.stats.Accepted,
			"rejected", s.stats.Rejected, "bytes", s.stats.Bytes)
	}()

	cmd := make([]byte, tokenLen)
	for {
		if err := s.link.await(ctx, cmd); err != nil {
			return err
		}

		switch string(cmd) {
		case tokenReset:
			return nil
		case tokenChunk:
			if err := s.link.sendAck(); err != nil {
				return err
			}
			if err := s.dispatch(); err != nil {
				var ce *ChunkError
				if !errors.As(err, &ce) {
					return err
				}
				s.stats.Rejected++
				s.log.Warnw("chunk", "status", "rejected", "id", s.ID, "error", ce)
				continue
			}
			s.stats.Accepted++
		default:
			s.log.Debugw("command", "status", "rejected", "id", s.ID, "error", ErrUnknownCommand, "token", string(cmd))
			if err := s.link.sendNak(); err != nil {
				return err
			}
		}
	}
}

func (s *Session) dispatch() error {
	if s.Mode == ModeRead {
		return s.readChunk()
	}
	return s.writeChunk()
}

// reject signals a failed chunk step to the host.
func (s *Session) reject(op string, length int, kind, cause error) error {
	if err := s.link.sendNak(); err != nil {
		return err
	}
	return s.chunkError(op, length, kind, cause)
}

func (s *Session) chunkError(op string, length int, kind, cause error) *ChunkError {
	return &ChunkError{Op: op, Offset: s.offset, Length: length, Err: kind, Cause: cause}
}

// readLength reads the declared chunk length and checks it against the
// chunk size. A rejected length comes back as a *ChunkError.
func (s *Session) readLength(op string) (length int, err error) {
	v, ok, err := s.link.readUint16()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, s.reject(op, 0, ErrShortPayload, nil)
	}
	if int(v) > s.cfg.ChunkSize {
		return 0, s.reject(op, int(v), ErrOversized, nil)
	}
	return int(v), nil
}

// advance moves the offset forward. The cursor is 16 bits wide and wraps
// without checking the device capacity.
func (s *Session) advance(n int) {
	next := s.offset + uint16(n)
	if n > 0 && next <= s.offset {
		s.log.Debugw("offset", "status", "wrapped", "id", s.ID, "from", s.offset, "to", next)
	}
	s.offset = next
	s.stats.Bytes += n
}
