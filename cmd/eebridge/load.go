package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var loadCmd = &cli.Command{
	Name:  "load",
	Usage: "write a file to the EEPROM directly over I2C, from address 0",
	Flags: []cli.Flag{
		chipFlag,
		emulatedFlag,
		&cli.StringFlag{Name: "f", Required: true, Usage: "input file"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		input, err := os.Open(c.String("f"))
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer input.Close()

		t, err := openTarget(cfg, c.Bool("sim"))
		if err != nil {
			return err
		}
		defer t.Close()

		if err := configureChip(t.EEPROM, c.String("chip")); err != nil {
			return err
		}

		n, err := t.EEPROM.WriteFrom(input)
		if err != nil {
			return fmt.Errorf("write EEPROM failed after %d bytes: %w", n, err)
		}
		fmt.Printf("wrote %d bytes\n", n)
		return nil
	},
}
