package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var dumpCmd = &cli.Command{
	Name:  "dump",
	Usage: "read EEPROM contents directly over I2C",
	Flags: []cli.Flag{
		chipFlag,
		emulatedFlag,
		&cli.IntFlag{Name: "n", Value: 256, Usage: "number of bytes to read"},
		&cli.IntFlag{Name: "a", Value: 0, Usage: "start address"},
		&cli.StringFlag{Name: "o", Usage: "output file (default: hexdump)"},
	},
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

		if err := configureChip(t.EEPROM, c.String("chip")); err != nil {
			return err
		}

		data, err := t.EEPROM.ReadAt(c.Int("a"), c.Int("n"))
		if err != nil {
			return fmt.Errorf("read EEPROM failed: %w", err)
		}
		if out := c.String("o"); out != "" {
			return os.WriteFile(out, data, 0644)
		}
		fmt.Print(hex.Dump(data))
		return nil
	},
}
