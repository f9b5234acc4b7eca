package eebridge

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"periph.io/x/conn/v3/physic"
)

// EnvPrefix prefixes every environment variable read by GetConfig, e.g.
// EEBRIDGE_CHUNK_SIZE, EEBRIDGE_SERIAL_PORT or EEBRIDGE_I2C_BUS.
const EnvPrefix = "EEBRIDGE"

type Config struct {
	// ChunkSize bounds the payload of a single chunk.
	ChunkSize int `split_words:"true"`
	// Settle is waited before the data write and after the address-set write.
	Settle time.Duration
	// LegacyTokens sends "ack"/"nck" instead of single-byte ACK/NAK.
	LegacyTokens bool          `split_words:"true"`
	LogLevel     zapcore.Level `split_words:"true"`

	Serial struct {
		Port        string
		Baud        int
		ReadTimeout time.Duration `split_words:"true"`
	}
	I2C struct {
		Bus   string
		Speed physic.Frequency
	}
	Sim struct {
		Path string
	}
}

// DefaultConfig returns the configuration GetConfig produces from an empty
// environment. GetConfig starts from it and lets the environment override.
func DefaultConfig() Config {
	var cfg Config
	cfg.ChunkSize = 16
	cfg.Settle = 5 * time.Millisecond
	cfg.LogLevel = zapcore.InfoLevel
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Serial.Baud = 115200
	cfg.Serial.ReadTimeout = time.Second
	cfg.Sim.Path = "eeprom.db"
	return cfg
}

func GetConfig() (*Config, error) {
	cfg := DefaultConfig()
	err := envconfig.Process(EnvPrefix, &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	// a larger chunk could not be written in one page transaction
	if page := MinPageSize(); c.ChunkSize < 1 || c.ChunkSize > page {
		return fmt.Errorf("chunk size %d out of range [1, %d]", c.ChunkSize, page)
	}
	if c.Settle < 0 {
		return fmt.Errorf("negative settle delay %s", c.Settle)
	}
	// without a timeout raw mode blocks for the first byte, so short
	// payloads are never detected and cancellation waits for input
	if c.Serial.ReadTimeout <= 0 {
		return fmt.Errorf("serial read timeout must be positive, got %s", c.Serial.ReadTimeout)
	}
	return nil
}
