package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"periph.io/x/host/v3/ftdi"
)

var infoCmd = &cli.Command{
	Name:  "info",
	Usage: "print the I2C bus and EEPROM parameters",
	Flags: []cli.Flag{chipFlag, emulatedFlag},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		t, err := openTarget(cfg, c.Bool("sim"))
		if err != nil {
			return err
		}
		defer t.Close()

		e := t.EEPROM
		if err := configureChip(e, c.String("chip")); err != nil {
			return err
		}
		fmt.Printf("EEPROM:          %s\n", e.Name())
		fmt.Printf("Bus:             %s\n", e)
		fmt.Printf("Capacity:        %d bytes\n", e.Capacity())
		fmt.Printf("Page size:       %d bytes\n", e.PageSize())
		fmt.Printf("Chunk size:      %d bytes\n", cfg.ChunkSize)

		if t.Device == nil || t.Device.FTDI == nil {
			return nil
		}
		ft := t.Device.FTDI

		// Reference: https://github.com/periph/cmd/tree/main/ftdi-list
		i := ftdi.Info{}
		ft.Info(&i)
		fmt.Printf("Type:            %s\n", i.Type)
		fmt.Printf("Vendor ID:       %#04x\n", i.VenID)
		fmt.Printf("Device ID:       %#04x\n", i.DevID)

		ee := ftdi.EEPROM{}
		if err := ft.EEPROM(&ee); err != nil {
			return fmt.Errorf("failed to read FTDI EEPROM: %w", err)
		}
		fmt.Printf("Manufacturer:    %s\n", ee.Manufacturer)
		fmt.Printf("Desc:            %s\n", ee.Desc)
		fmt.Printf("Serial:          %s\n", ee.Serial)
		return nil
	},
}
