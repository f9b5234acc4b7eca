package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gentam/eebridge"
	"github.com/urfave/cli/v2"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "bridge the serial host to the EEPROM on the I2C bus",
	Action: func(c *cli.Context) error {
		return serve(c, false)
	},
}

var simCmd = &cli.Command{
	Name:  "sim",
	Usage: "bridge the serial host to an emulated EEPROM stored in LevelDB",
	Action: func(c *cli.Context) error {
		return serve(c, true)
	},
}

func serve(c *cli.Context, emulated bool) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	t, err := openTarget(cfg, emulated)
	if err != nil {
		return err
	}
	defer t.Close()

	port, err := eebridge.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud, cfg.Serial.ReadTimeout)
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("startup", "status", "bridge started", "port", cfg.Serial.Port, "baud", cfg.Serial.Baud, "eeprom", t.EEPROM)
	defer log.Infow("shutdown", "status", "bridge stopped", "port", cfg.Serial.Port)

	err = eebridge.New(port, t.EEPROM, *cfg, log).Serve(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
