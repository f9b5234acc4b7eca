package eebridge

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/gentam/eebridge/internal/sim"
	"go.uber.org/zap/zaptest"
)

// scriptPort plays the host side of the serial link. Each segment is
// delivered in order; running out of a segment produces one read timeout
// (no data, no error) and running out of segments closes the link.
type scriptPort struct {
	segments [][]byte
	out      bytes.Buffer
}

func newScriptPort(segments ...[]byte) *scriptPort {
	return &scriptPort{segments: segments}
}

func (p *scriptPort) Read(b []byte) (int, error) {
	if len(p.segments) == 0 {
		return 0, io.EOF
	}
	if len(p.segments[0]) == 0 {
		p.segments = p.segments[1:]
		return 0, nil
	}
	n := copy(b, p.segments[0])
	p.segments[0] = p.segments[0][n:]
	return n, nil
}

func (p *scriptPort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Settle = 0
	return cfg
}

func newTestBridge(t *testing.T, port *scriptPort, cfg Config) (*Bridge, *sim.EEPROM) {
	t.Helper()
	bus := sim.NewMemory()
	t.Cleanup(func() { bus.Close() })
	return New(port, NewEEPROM(bus), cfg, zaptest.NewLogger(t).Sugar()), bus
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func le16(v int) []byte {
	return binary.LittleEndian.AppendUint16(nil, uint16(v))
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func acks(n int) []byte {
	return bytes.Repeat(signalAck, n)
}

// writeRequest is what the host sends for one write chunk.
func writeRequest(payload []byte, sum uint32) []byte {
	return cat([]byte(tokenChunk), le16(len(payload)), payload, le32(sum))
}

// readRequest is what the host sends for one read chunk, including its
// confirmation.
func readRequest(length int, reply string) []byte {
	return cat([]byte(tokenChunk), le16(length), []byte(reply))
}

func seed(t *testing.T, bus *sim.EEPROM, addr int, data []byte) {
	t.Helper()
	w := cat([]byte{byte(addr >> 8), byte(addr)}, data)
	if err := bus.Tx(Address, w, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func peek(t *testing.T, bus *sim.EEPROM, addr, n int) []byte {
	t.Helper()
	b, err := bus.Peek(addr, n)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	return b
}
