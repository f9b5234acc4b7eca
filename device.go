package eebridge

import (
	"errors"
	"fmt"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// BusFTDI selects the I2C port of an FT232H adapter instead of a bus
// registered with i2creg.
const BusFTDI = "ftdi"

type Device struct {
	FTDI   *ftdi.FT232H // set only when opened with BusFTDI
	EEPROM *EEPROM

	bus i2c.BusCloser
}

var hostInitialized atomic.Bool

// NewDevice initializes the host drivers and opens the I2C bus with the
// given name ("" for the first registered bus, or BusFTDI). A non-zero speed
// sets the bus clock.
func NewDevice(busName string, speed physic.Frequency) (*Device, error) {
	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host initialization failed: %w", err)
		}
	}

	d := &Device{}
	if err := d.openBus(busName); err != nil {
		return nil, err
	}

	// [24AA512|1.0 AC Characteristics] 100kHz at 1.7V, 400kHz at 2.5V and up
	if speed != 0 {
		if err := d.bus.SetSpeed(speed); err != nil {
			d.bus.Close()
			return nil, fmt.Errorf("failed to set I2C speed to %s: %w", speed, err)
		}
	}

	d.EEPROM = NewEEPROM(d.bus)
	return d, nil
}

func (d *Device) Close() error {
	return d.bus.Close()
}

func (d *Device) openBus(name string) (err error) {
	if name != BusFTDI {
		d.bus, err = i2creg.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open I2C bus %q: %w", name, err)
		}
		return nil
	}

	if err := d.findFT232H(); err != nil {
		return err
	}
	// [FTDI-AN_255|3 Hardware] SDA needs AD1 and AD2 tied together; the
	// internal pull-ups are enough for a single EEPROM on a short cable.
	d.bus, err = d.FTDI.I2C(gpio.PullUp)
	if err != nil {
		return fmt.Errorf("failed to get I2C port: %w", err)
	}
	return nil
}

func (d *Device) findFT232H() error {
	const vendorID = 0x0403 // FTDI
	productIDs := []uint16{
		0x6014, // FT232H
		0x6010, // FT2232H
	}

	info := ftdi.Info{}
	for _, dev := range ftdi.All() {
		dev.Info(&info)
		if info.VenID != vendorID {
			continue
		}
		for _, pid := range productIDs {
			if info.DevID != pid {
				continue
			}
			if ft, ok := dev.(*ftdi.FT232H); ok {
				d.FTDI = ft
				return nil
			}
		}
	}

	return errors.New("FT232H device not found")
}
