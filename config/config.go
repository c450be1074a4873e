package config

import (
	"errors"
	"log/slog"

	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Bun        BunConfig
	E2EE       E2EEConfig
	LoggerMode LoggerMode
}

type Server struct {
	Port        string
	Environment string
}

type BunConfig struct {
	DSN string
}

type LoggerMode struct {
	Development bool
	Prod        bool
	Level       string
}

// E2EEConfig controls the encrypted-messaging key core.
type E2EEConfig struct {
	// PBKDF2 iteration count for the PIN-derived backup wrap key.
	KDFIterations int

	// Path of the bbolt file holding this device's identity and the
	// opt-in remembered bundle.
	LocalStorePath string

	// RememberUnlock caches the decrypted bundle locally so the user is
	// not re-prompted for PIN/recovery on every session on this device.
	RememberUnlock bool

	// Human-readable label registered with the device row.
	DeviceLabel string
}

// DefaultKDFIterations is applied when the config does not set one. High on
// purpose: the PIN is short and the salt is stored next to the envelope.
const DefaultKDFIterations = 600_000

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	if c.E2EE.KDFIterations == 0 {
		c.E2EE.KDFIterations = DefaultKDFIterations
	}
	return &c, nil
}
