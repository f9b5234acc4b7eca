package eebridge

import (
	"bytes"
	"time"
)

const opRead = "read"

// readChunk sends one chunk from the current offset to the host:
//
//	host: [uint16 length]                  bridge: ACK
//	                                       bridge: I2C address write
//	                                       bridge: [uint32 checksum][N bytes]
//	host: "ack"
//
// N is what the bus delivered, at most length. The offset advances by the
// requested length once the host confirms.
func (s *Session) readChunk() error {
	length, err := s.readLength(opRead)
	if err != nil {
		return err
	}
	if err := s.link.sendAck(); err != nil {
		return err
	}

	if err := s.eeprom.SetAddress(s.offset); err != nil {
		return s.reject(opRead, length, ErrBus, err)
	}

	time.Sleep(s.cfg.Settle)

	chunk := make([]byte, length)
	n, err := s.eeprom.ReadCurrent(chunk)
	if n < length {
		s.log.Warnw("chunk", "status", "short read", "id", s.ID, "offset", s.offset,
			"requested", length, "received", n, "error", err)
	}
	chunk = chunk[:n]

	if err := s.link.sendChunk(wideChecksum(chunk), chunk); err != nil {
		return err
	}

	reply := make([]byte, tokenLen)
	got, err := s.link.read(reply)
	if err != nil {
		return err
	}
	if got < tokenLen || !bytes.Equal(reply, []byte(tokenAck)) {
		return s.chunkError(opRead, length, ErrNoHostAck, nil)
	}

	s.log.Debugw("chunk", "status", "read", "id", s.ID, "offset", s.offset, "length", n)
	s.advance(length)
	return nil
}
