package eebridge

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pkg/term"
)

// SerialPort is a tty in raw mode. A read that times out returns no data and
// no error.
type SerialPort struct {
	t *term.Term
}

// OpenSerial opens the tty at name with 8N1 raw mode at baud. A non-zero
// readTimeout bounds how long a read waits for the first byte.
func OpenSerial(name string, baud int, readTimeout time.Duration) (*SerialPort, error) {
	t, err := term.Open(name, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	if readTimeout > 0 {
		if err := t.SetReadTimeout(readTimeout); err != nil {
			t.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	// drop anything received before the host connected
	if err := t.Flush(); err != nil {
		t.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}
	return &SerialPort{t: t}, nil
}

func (p *SerialPort) Read(b []byte) (int, error) {
	n, err := p.t.Read(b)
	if errors.Is(err, io.EOF) {
		// a tty reports the read timeout as end of file
		return n, nil
	}
	return n, err
}

func (p *SerialPort) Write(b []byte) (int, error) {
	return p.t.Write(b)
}

func (p *SerialPort) Close() error {
	return p.t.Close()
}
