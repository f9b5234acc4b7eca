package sim

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

var _ i2c.BusCloser = (*EEPROM)(nil)

func write(t *testing.T, e *EEPROM, addr int, data []byte) {
	t.Helper()
	w := append([]byte{byte(addr >> 8), byte(addr)}, data...)
	if err := e.Tx(Address, w, nil); err != nil {
		t.Fatalf("write at 0x%04X: %v", addr, err)
	}
}

func TestErasedReadsFF(t *testing.T) {
	e := NewMemory()
	defer e.Close()

	got, err := e.Peek(0x1000, 3)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if want := []byte{0xFF, 0xFF, 0xFF}; !bytes.Equal(got, want) {
		t.Errorf("Peek = %X, want %X", got, want)
	}
}

func TestRandomAndSequentialRead(t *testing.T) {
	e := NewMemory()
	defer e.Close()
	write(t, e, 0x0100, []byte("hello"))

	// random read: address write, then read
	if err := e.Tx(Address, []byte{0x01, 0x01}, nil); err != nil {
		t.Fatalf("address write: %v", err)
	}
	buf := make([]byte, 2)
	if err := e.Tx(Address, nil, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "el" {
		t.Errorf("read = %q, want %q", buf, "el")
	}

	// current address read continues where the last one stopped
	if err := e.Tx(Address, nil, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "lo" {
		t.Errorf("read = %q, want %q", buf, "lo")
	}
}

func TestPageRollover(t *testing.T) {
	e := NewMemory()
	defer e.Close()

	write(t, e, PageSize-2, []byte{0x01, 0x02, 0x03, 0x04})

	got, _ := e.Peek(PageSize-2, 2)
	if want := []byte{0x01, 0x02}; !bytes.Equal(got, want) {
		t.Errorf("end of page = %X, want %X", got, want)
	}
	got, _ = e.Peek(0, 2)
	if want := []byte{0x03, 0x04}; !bytes.Equal(got, want) {
		t.Errorf("start of page = %X, want %X", got, want)
	}
	got, _ = e.Peek(PageSize, 2)
	if want := []byte{0xFF, 0xFF}; !bytes.Equal(got, want) {
		t.Errorf("next page = %X, want %X", got, want)
	}
}

func TestSequentialReadWrapsAtEnd(t *testing.T) {
	e := NewMemory()
	defer e.Close()
	write(t, e, Capacity-1, []byte{0xAB})
	write(t, e, 0, []byte{0xCD})

	got, err := e.Peek(Capacity-1, 2)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if want := []byte{0xAB, 0xCD}; !bytes.Equal(got, want) {
		t.Errorf("Peek = %X, want %X", got, want)
	}
}

func TestOtherAddressNotAcknowledged(t *testing.T) {
	e := NewMemory()
	defer e.Close()

	err := e.Tx(0x51, []byte{0, 0}, nil)
	if !errors.Is(err, ErrNoAck) {
		t.Errorf("Tx(0x51) error = %v, want ErrNoAck", err)
	}
}

func TestIncompleteAddress(t *testing.T) {
	e := NewMemory()
	defer e.Close()

	if err := e.Tx(Address, []byte{0x00}, nil); err == nil {
		t.Error("one-byte address write succeeded")
	}
}

func TestFaultInjection(t *testing.T) {
	e := NewMemory()
	defer e.Close()

	e.FailWrites(true)
	if err := e.Tx(Address, []byte{0, 0, 1}, nil); !errors.Is(err, ErrInjected) {
		t.Errorf("write error = %v, want ErrInjected", err)
	}
	e.FailWrites(false)
	e.FailReads(true)
	if err := e.Tx(Address, nil, make([]byte, 1)); !errors.Is(err, ErrInjected) {
		t.Errorf("read error = %v, want ErrInjected", err)
	}

	if writes, reads := e.Transactions(); writes != 0 || reads != 0 {
		t.Errorf("Transactions() = %d, %d; want 0, 0", writes, reads)
	}
	got, _ := e.Peek(0, 1)
	if got[0] != 0xFF {
		t.Errorf("failed write reached the array: %X", got)
	}
}

func TestPeekKeepsPointer(t *testing.T) {
	e := NewMemory()
	defer e.Close()
	write(t, e, 0x20, []byte{0x01, 0x02})
	if err := e.Tx(Address, []byte{0x00, 0x20}, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Peek(0x4000, 8); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 2)
	if err := e.Tx(Address, nil, buf); err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x01, 0x02}; !bytes.Equal(buf, want) {
		t.Errorf("read after Peek = %X, want %X", buf, want)
	}
}

func TestSetSpeed(t *testing.T) {
	e := NewMemory()
	defer e.Close()

	if err := e.SetSpeed(400 * physic.KiloHertz); err != nil {
		t.Errorf("SetSpeed(400kHz): %v", err)
	}
	if err := e.SetSpeed(3400 * physic.KiloHertz); err == nil {
		t.Error("SetSpeed(3.4MHz) succeeded")
	}
}

func TestLevelDBPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.db")

	e, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	write(t, e, 0x0200, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer e.Close()

	got, err := e.Peek(0x0200, 4)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if want := []byte{0xDE, 0xAD, 0xBE, 0xEF}; !bytes.Equal(got, want) {
		t.Errorf("Peek = %X, want %X", got, want)
	}
}
