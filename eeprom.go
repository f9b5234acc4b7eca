package eebridge

import (
	"errors"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// Address is the 7-bit I2C address of the EEPROM with A2..A0 tied low.
// [24AA512|5.0 Device Addressing]
const Address = 0x50

// EEPROM drives a 24AA512-class serial EEPROM. Every transfer starts with a
// two-byte big-endian word address. [24AA512|Figure 6-1, Figure 8-2]
type EEPROM struct {
	dev i2c.Dev
	pr  *eepromParams
}

func NewEEPROM(bus i2c.Bus) *EEPROM {
	return &EEPROM{
		dev: i2c.Dev{Bus: bus, Addr: Address},
	}
}

// Configure selects the timing and geometry of a known chip. It reports
// whether the chip is known; unknown chips keep the conservative defaults.
func (e *EEPROM) Configure(chip string) (name string, ok bool) {
	params, ok := lookupEEPROM(chip)
	if !ok {
		return "", false
	}
	e.pr = &params
	return params.name, true
}

// Name returns the configured chip name, or "" when none was configured.
func (e *EEPROM) Name() string {
	if e.pr == nil {
		return ""
	}
	return e.pr.name
}

func (e *EEPROM) String() string {
	return fmt.Sprintf("%s@%#02x", e.dev.Bus, e.dev.Addr)
}

// Write stores data at off in a single bus transaction.
// [24AA512|6.2 Page Write] data that crosses a page boundary would roll over
// to the start of the same page, so such writes fail with ErrPageBoundary
// before touching the bus.
func (e *EEPROM) Write(off uint16, data []byte) error {
	if page := e.PageSize(); int(off)%page+len(data) > page {
		return fmt.Errorf("%w: %d bytes at 0x%04X, page is %d bytes", ErrPageBoundary, len(data), off, page)
	}
	buf := make([]byte, 2+len(data))
	buf[0] = byte(off >> 8)
	buf[1] = byte(off)
	copy(buf[2:], data)
	return e.dev.Tx(buf, nil)
}

// SetAddress loads the device's internal address pointer without writing
// data. [24AA512|8.2 Random Read]
func (e *EEPROM) SetAddress(off uint16) error {
	return e.dev.Tx([]byte{byte(off >> 8), byte(off)}, nil)
}

// ReadCurrent reads len(buf) bytes starting at the device's address pointer
// and returns how many bytes the bus delivered.
// [24AA512|8.1 Current Address Read, 8.3 Sequential Read]
func (e *EEPROM) ReadCurrent(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if err := e.dev.Tx(nil, buf); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// ReadAt performs a random read of n bytes at addr followed by a sequential
// read, splitting it into transactions of at most one page.
func (e *EEPROM) ReadAt(addr, n int) ([]byte, error) {
	if addr < 0 || addr+n > e.Capacity() {
		return nil, fmt.Errorf("range 0x%X+%d exceeds %d byte device", addr, n, e.Capacity())
	}

	out := make([]byte, n)
	if n == 0 {
		return out, nil
	}
	if err := e.SetAddress(uint16(addr)); err != nil {
		return nil, err
	}

	page := e.PageSize()
	for off := 0; off < n; {
		chunk := min(n-off, page)
		got, err := e.ReadCurrent(out[off : off+chunk])
		if err != nil {
			return nil, err
		}
		off += got
	}
	return out, nil
}

// WriteFrom programs r from address 0 one page at a time, waiting the write
// cycle time after each page. It returns the number of bytes written.
func (e *EEPROM) WriteFrom(r io.Reader) (int, error) {
	buf := make([]byte, e.PageSize())
	addr := 0
	for {
		n, err := io.ReadFull(r, buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return addr, err
		}
		if n == 0 {
			break
		}
		if addr+n > e.Capacity() {
			return addr, fmt.Errorf("input exceeds %d byte device", e.Capacity())
		}
		if err := e.Write(uint16(addr), buf[:n]); err != nil {
			return addr, fmt.Errorf("page write at 0x%04X: %w", addr, err)
		}
		time.Sleep(e.tWC()) // [24AA512|tWC]
		addr += n
	}
	return addr, nil
}
