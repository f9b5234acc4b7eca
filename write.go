package eebridge

import "time"

const opWrite = "write"

// writeChunk receives one chunk from the host and stores it at the current
// offset:
//
//	host: [uint16 length]                  bridge: ACK
//	host: [length bytes]                   bridge: ACK
//	host: [uint32 checksum]                bridge: ACK
//	                                       bridge: I2C write, ACK
//
// Any failed step is answered with NAK and leaves the offset unchanged.
func (s *Session) writeChunk() error {
	length, err := s.readLength(opWrite)
	if err != nil {
		return err
	}
	if err := s.link.sendAck(); err != nil {
		return err
	}

	chunk := make([]byte, length)
	n, err := s.link.read(chunk)
	if err != nil {
		return err
	}
	if n != length {
		return s.reject(opWrite, length, ErrShortPayload, nil)
	}

	sum := wideChecksum(chunk)
	if err := s.link.sendAck(); err != nil {
		return err
	}

	remote, ok, err := s.link.readUint32()
	if err != nil {
		return err
	}
	if !ok {
		return s.reject(opWrite, length, ErrShortPayload, nil)
	}
	if remote != sum {
		s.log.Debugw("chunk", "status", "checksum", "id", s.ID, "local", sum, "remote", remote)
		return s.reject(opWrite, length, ErrChecksum, nil)
	}
	if err := s.link.sendAck(); err != nil {
		return err
	}

	time.Sleep(s.cfg.Settle)

	if err := s.eeprom.Write(s.offset, chunk); err != nil {
		return s.reject(opWrite, length, ErrBus, err)
	}

	s.log.Debugw("chunk", "status", "written", "id", s.ID, "offset", s.offset, "length", length)
	s.advance(length)

	return s.link.sendAck()
}
