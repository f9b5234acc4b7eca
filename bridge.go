package eebridge

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bridge serves the host on a serial link. While idle it waits for a mode
// token and a chip name, then runs a session in that mode until the host
// resets it:
//
//	host: "wrt" | "rd "
//	host: "<chip>;"                        bridge: ACK (known chip) | NAK
//	host: "chk" ... "rst"
type Bridge struct {
	link   *link
	eeprom *EEPROM
	cfg    Config
	log    *zap.SugaredLogger
}

// New returns a Bridge talking to the host over port and to the EEPROM.
func New(port io.ReadWriter, eeprom *EEPROM, cfg Config, log *zap.SugaredLogger) *Bridge {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bridge{
		link:   newLink(port, cfg.LegacyTokens),
		eeprom: eeprom,
		cfg:    cfg,
		log:    log,
	}
}

// NewSession starts a session in mode with the offset at zero.
func (b *Bridge) NewSession(mode Mode) *Session {
	return &Session{
		ID:     uuid.New(),
		Mode:   mode,
		link:   b.link,
		eeprom: b.eeprom,
		cfg:    b.cfg,
		log:    b.log,
	}
}

// Serve runs the idle loop until ctx is cancelled or the serial link fails.
func (b *Bridge) Serve(ctx context.Context) error {
	b.log.Infow("bridge", "status", "idle", "eeprom", b.eeprom, "chunk_size", b.cfg.ChunkSize)

	token := make([]byte, tokenLen)
	for {
		if err := b.link.await(ctx, token); err != nil {
			return err
		}

		var mode Mode
		switch string(token) {
		case tokenReset:
			continue
		case tokenWrite:
			mode = ModeWrite
		case tokenRead:
			mode = ModeRead
		default:
			b.log.Debugw("bridge", "status", "unknown mode", "token", string(token))
			if err := b.link.sendNak(); err != nil {
				return err
			}
			continue
		}

		chip, ok, err := b.link.readChipName()
		if err != nil {
			return err
		}
		if ok {
			_, ok = b.eeprom.Configure(chip)
		}
		if !ok {
			b.log.Warnw("bridge", "status", "unsupported chip", "chip", chip, "mode", mode)
			if err := b.link.sendNak(); err != nil {
				return err
			}
			continue
		}
		if err := b.link.sendAck(); err != nil {
			return err
		}

		if err := b.NewSession(mode).Run(ctx); err != nil {
			return err
		}
	}
}
