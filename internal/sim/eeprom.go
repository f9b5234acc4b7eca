// Package sim emulates a 24AA512 EEPROM as an I2C bus.
//
// The memory array is kept in a datastore as 128-byte pages, so an image can
// live in memory for tests or in LevelDB between runs. Cells never written
// read as 0xFF like an erased part.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ds "github.com/ipfs/go-datastore"
	dslvl "github.com/ipfs/go-ds-leveldb"
	"periph.io/x/conn/v3/physic"
)

const (
	Address  = 0x50
	Capacity = 64 << 10
	PageSize = 128
)

var (
	ErrNoAck    = errors.New("sim: no ACK from device")
	ErrInjected = errors.New("sim: injected bus fault")
)

// EEPROM implements i2c.BusCloser.
type EEPROM struct {
	mu    sync.Mutex
	store ds.Datastore
	ptr   int // internal address pointer

	failWrites bool
	failReads  bool
	writes     int
	reads      int
}

// New returns an emulator backed by store.
func New(store ds.Datastore) *EEPROM {
	return &EEPROM{store: store}
}

// NewMemory returns an emulator backed by an in-memory datastore.
func NewMemory() *EEPROM {
	return New(ds.NewMapDatastore())
}

// Open returns an emulator persisted in the LevelDB database at path.
func Open(path string) (*EEPROM, error) {
	store, err := dslvl.NewDatastore(path, nil)
	if err != nil {
		return nil, fmt.Errorf("sim: open store %s: %w", path, err)
	}
	return New(store), nil
}

func (e *EEPROM) String() string {
	return "sim-24AA512"
}

// SetSpeed accepts any clock up to 1MHz. [24AA512|24FC512 1MHz]
func (e *EEPROM) SetSpeed(f physic.Frequency) error {
	if f > physic.MegaHertz {
		return fmt.Errorf("sim: %s exceeds 1MHz", f)
	}
	return nil
}

func (e *EEPROM) Close() error {
	return e.store.Close()
}

// Tx performs one bus transaction. A write sets the address pointer from its
// first two bytes and stores the rest rolling over inside the page; a read
// returns bytes from the pointer, wrapping at the end of the array.
func (e *EEPROM) Tx(addr uint16, w, r []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if addr != Address {
		return fmt.Errorf("%w 0x%02X", ErrNoAck, addr)
	}

	ctx := context.Background()
	if len(w) > 0 {
		if e.failWrites {
			return ErrInjected
		}
		if len(w) < 2 {
			return errors.New("sim: incomplete word address")
		}
		e.writes++
		e.ptr = (int(w[0])<<8 | int(w[1])) % Capacity
		if err := e.program(ctx, w[2:]); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		if e.failReads {
			return ErrInjected
		}
		e.reads++
		if err := e.read(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (e *EEPROM) program(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	index := e.ptr / PageSize
	page, err := e.page(ctx, index)
	if err != nil {
		return err
	}
	base := index * PageSize
	col := e.ptr - base
	for _, b := range data {
		page[col] = b
		col = (col + 1) % PageSize
	}
	e.ptr = base + col
	return e.store.Put(ctx, pageKey(index), page)
}

func (e *EEPROM) read(ctx context.Context, r []byte) error {
	for off := 0; off < len(r); {
		index := e.ptr / PageSize
		page, err := e.page(ctx, index)
		if err != nil {
			return err
		}
		col := e.ptr - index*PageSize
		n := copy(r[off:], page[col:])
		off += n
		e.ptr = (e.ptr + n) % Capacity
	}
	return nil
}

func (e *EEPROM) page(ctx context.Context, index int) ([]byte, error) {
	b, err := e.store.Get(ctx, pageKey(index))
	if errors.Is(err, ds.ErrNotFound) {
		b = make([]byte, PageSize)
		for i := range b {
			b[i] = 0xFF
		}
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sim: load page %d: %w", index, err)
	}
	page := make([]byte, PageSize)
	copy(page, b)
	return page, nil
}

func pageKey(index int) ds.Key {
	return ds.NewKey(fmt.Sprintf("/page/%04x", index))
}

// FailWrites makes write transactions fail until called with false.
func (e *EEPROM) FailWrites(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failWrites = fail
}

// FailReads makes read transactions fail until called with false.
func (e *EEPROM) FailReads(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failReads = fail
}

// Transactions returns how many write and read transactions reached the
// memory array.
func (e *EEPROM) Transactions() (writes, reads int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writes, e.reads
}

// Peek returns n bytes at addr without touching the address pointer.
func (e *EEPROM) Peek(addr, n int) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ptr := e.ptr
	defer func() { e.ptr = ptr }()

	e.ptr = addr % Capacity
	out := make([]byte, n)
	if err := e.read(context.Background(), out); err != nil {
		return nil, err
	}
	return out, nil
}
