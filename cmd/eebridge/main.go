package main

import (
	"fmt"
	"os"

	"github.com/gentam/eebridge"
	"github.com/gentam/eebridge/internal/logger"
	"github.com/gentam/eebridge/internal/sim"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "eebridge",
		Usage: "bridge a serial host to a 24AA512 I2C EEPROM",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "chunk-size", Usage: "maximum payload bytes per chunk"},
			&cli.DurationFlag{Name: "settle", Usage: "delay around EEPROM address and data writes"},
			&cli.BoolFlag{Name: "legacy-tokens", Usage: `answer with "ack"/"nck" instead of single bytes`},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "serial port of the host link"},
			&cli.IntFlag{Name: "baud", Usage: "serial baud rate"},
			&cli.DurationFlag{Name: "read-timeout", Usage: "serial read timeout inside a chunk"},
			&cli.StringFlag{Name: "bus", Usage: `I2C bus name, or "ftdi" for an FT232H adapter`},
			&cli.StringFlag{Name: "speed", Usage: "I2C clock, e.g. 400kHz"},
			&cli.StringFlag{Name: "sim-path", Usage: "LevelDB directory of the emulated EEPROM"},
		},
		Commands: []*cli.Command{
			serveCmd,
			simCmd,
			infoCmd,
			dumpCmd,
			loadCmd,
		},
	}
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig(c *cli.Context) (*eebridge.Config, error) {
	cfg, err := eebridge.GetConfig()
	if err != nil {
		return nil, err
	}

	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("settle") {
		cfg.Settle = c.Duration("settle")
	}
	if c.IsSet("legacy-tokens") {
		cfg.LegacyTokens = c.Bool("legacy-tokens")
	}
	if c.IsSet("log-level") {
		if err := cfg.LogLevel.Set(c.String("log-level")); err != nil {
			return nil, err
		}
	}
	if c.IsSet("port") {
		cfg.Serial.Port = c.String("port")
	}
	if c.IsSet("baud") {
		cfg.Serial.Baud = c.Int("baud")
	}
	if c.IsSet("read-timeout") {
		cfg.Serial.ReadTimeout = c.Duration("read-timeout")
	}
	if c.IsSet("bus") {
		cfg.I2C.Bus = c.String("bus")
	}
	if c.IsSet("speed") {
		if err := cfg.I2C.Speed.Set(c.String("speed")); err != nil {
			return nil, fmt.Errorf("invalid speed: %w", err)
		}
	}
	if c.IsSet("sim-path") {
		cfg.Sim.Path = c.String("sim-path")
	}

	return cfg, cfg.Validate()
}

func setup(c *cli.Context) (*eebridge.Config, *zap.SugaredLogger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New("eebridge", cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// target is the EEPROM a command works on: real hardware or the emulator.
type target struct {
	EEPROM *eebridge.EEPROM
	Device *eebridge.Device // nil for the emulator
	close  func() error
}

func (t *target) Close() error {
	return t.close()
}

func openTarget(cfg *eebridge.Config, emulated bool) (*target, error) {
	if emulated {
		bus, err := sim.Open(cfg.Sim.Path)
		if err != nil {
			return nil, err
		}
		return &target{EEPROM: eebridge.NewEEPROM(bus), close: bus.Close}, nil
	}

	d, err := eebridge.NewDevice(cfg.I2C.Bus, cfg.I2C.Speed)
	if err != nil {
		return nil, err
	}
	return &target{EEPROM: d.EEPROM, Device: d, close: d.Close}, nil
}

var (
	chipFlag = &cli.StringFlag{
		Name:  "chip",
		Value: "24AA512",
		Usage: "EEPROM part number",
	}
	emulatedFlag = &cli.BoolFlag{
		Name:  "sim",
		Usage: "use the emulated EEPROM at --sim-path",
	}
)

func configureChip(e *eebridge.EEPROM, chip string) error {
	if _, ok := e.Configure(chip); !ok {
		return fmt.Errorf("unsupported chip %q (supported: %v)", chip, eebridge.SupportedChips())
	}
	return nil
}
