package eebridge

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
)

// Command and mode tokens are three ASCII bytes.
const tokenLen = 3

const (
	tokenReset = "rst"
	tokenChunk = "chk"
	tokenAck   = "ack" // host confirmation after a read chunk
	tokenWrite = "wrt"
	tokenRead  = "rd "
)

// Flow-control signals sent by the bridge.
var (
	signalAck = []byte{0x06}
	signalNak = []byte{0x15}

	// The eepromrw host tool waits for these instead.
	legacyAck = []byte("ack")
	legacyNak = []byte("nck")
)

const (
	chipNameTerminator = ';'
	maxChipName        = 16
)

// link frames the serial byte stream. A Read that returns no data and no
// error is a read timeout: commands keep waiting through it, everything
// else treats it as the end of what the host sent.
type link struct {
	rw  io.ReadWriter
	ack []byte
	nak []byte
}

func newLink(rw io.ReadWriter, legacy bool) *link {
	l := &link{rw: rw, ack: signalAck, nak: signalNak}
	if legacy {
		l.ack, l.nak = legacyAck, legacyNak
	}
	return l
}

// await fills buf, blocking until the host sends enough bytes.
func (l *link) await(ctx context.Context, buf []byte) error {
	for off := 0; off < len(buf); {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := l.rw.Read(buf[off:])
		off += n
		if err != nil && off < len(buf) {
			return err
		}
	}
	return nil
}

// read fills buf until the host stops sending. It returns the number of
// bytes read, which is less than len(buf) only after a read timeout.
func (l *link) read(buf []byte) (int, error) {
	off := 0
	for off < len(buf) {
		n, err := l.rw.Read(buf[off:])
		off += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				return off, nil
			}
			return off, err
		}
		if n == 0 {
			break
		}
	}
	return off, nil
}

func (l *link) readUint16() (v uint16, ok bool, err error) {
	var raw [2]byte
	n, err := l.read(raw[:])
	if err != nil || n < len(raw) {
		return 0, false, err
	}
	return binary.LittleEndian.Uint16(raw[:]), true, nil
}

func (l *link) readUint32() (v uint32, ok bool, err error) {
	var raw [4]byte
	n, err := l.read(raw[:])
	if err != nil || n < len(raw) {
		return 0, false, err
	}
	return binary.LittleEndian.Uint32(raw[:]), true, nil
}

// readChipName reads up to the terminator. ok is false when the name is too
// long or the host stops sending before the terminator.
func (l *link) readChipName() (name string, ok bool, err error) {
	buf := make([]byte, 0, maxChipName)
	var b [1]byte
	for {
		n, err := l.read(b[:])
		if err != nil || n == 0 {
			return "", false, err
		}
		if b[0] == chipNameTerminator {
			return string(buf), true, nil
		}
		if len(buf) == maxChipName {
			return "", false, nil
		}
		buf = append(buf, b[0])
	}
}

func (l *link) sendAck() error {
	_, err := l.rw.Write(l.ack)
	return err
}

func (l *link) sendNak() error {
	_, err := l.rw.Write(l.nak)
	return err
}

// sendChunk writes [uint32 checksum][data] in one write.
func (l *link) sendChunk(sum uint32, data []byte) error {
	buf := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(buf, sum)
	copy(buf[4:], data)
	_, err := l.rw.Write(buf)
	return err
}
