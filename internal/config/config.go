// SPDX-License-Identifier: EPL-2.0

// Package config loads the siddec command settings from a YAML file and
// SIDDEC_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
	"github.com/ik5/siddec/engine/headless"
)

const (
	// DefaultBaseDir is the configuration directory under the home
	// directory.
	DefaultBaseDir = ".siddec"
	// DefaultConfigFile is the configuration file name.
	DefaultConfigFile = "config.yaml"
)

// Config is the full command configuration.
type Config struct {
	// Driver names the registered engine driver to render with.
	Driver  string  `yaml:"driver"`
	Decoder Decoder `yaml:"decoder"`
	Output  Output  `yaml:"output"`
	Server  Server  `yaml:"server"`

	path string
}

// Decoder mirrors the element properties.
type Decoder struct {
	Tune           int    `yaml:"tune"`
	BlockSize      int    `yaml:"blocksize"`
	Clock          string `yaml:"clock"`
	Filter         bool   `yaml:"filter"`
	MeasuredVolume bool   `yaml:"measured_volume"`
	MOS8580        bool   `yaml:"mos8580"`
	ForceSpeed     bool   `yaml:"force_speed"`
	ForceClock     bool   `yaml:"force_clock"`
	// Sampling is "interpolate" or "resample-interpolate".
	Sampling     string `yaml:"sampling"`
	FastSampling bool   `yaml:"fast_sampling"`
	// SongLength bounds how long the headless driver renders, e.g. "3m".
	SongLength string `yaml:"song_length"`
}

// Output selects the preferred stream format. Zero leaves the choice to
// the decoder.
type Output struct {
	Rate     int `yaml:"rate,omitempty"`
	Channels int `yaml:"channels,omitempty"`
	// Order is the byte order of raw output: native, le or be.
	Order string `yaml:"order"`
}

type Server struct {
	Addr    string `yaml:"addr"`
	Library string `yaml:"library"`
}

// Default returns the built-in settings.
func Default() *Config {
	ec := element.DefaultConfig()
	return &Config{
		Driver: headless.Name,
		Decoder: Decoder{
			Tune:           ec.Tune,
			BlockSize:      ec.BlockSize,
			Clock:          ec.Clock.String(),
			Filter:         ec.Filter,
			MeasuredVolume: ec.MeasuredVolume,
			MOS8580:        ec.MOS8580,
			ForceSpeed:     ec.ForceSpeed,
			ForceClock:     ec.ForceClock,
			Sampling:       ec.Sampling.String(),
			FastSampling:   ec.FastSampling,
			SongLength:     headless.DefaultLength.String(),
		},
		Output: Output{Order: "native"},
		Server: Server{Addr: ":8080", Library: "."},
	}
}

// DefaultPath returns ~/.siddec/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile), nil
}

// Load reads path, or the default path when empty, over the built-in
// settings and applies the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	c.Driver = envStr(getenv, "SIDDEC_DRIVER", c.Driver)

	d := &c.Decoder
	d.Tune = envInt(getenv, "SIDDEC_TUNE", d.Tune)
	d.BlockSize = envInt(getenv, "SIDDEC_BLOCKSIZE", d.BlockSize)
	d.Clock = envStr(getenv, "SIDDEC_CLOCK", d.Clock)
	d.Filter = envBool(getenv, "SIDDEC_FILTER", d.Filter)
	d.MeasuredVolume = envBool(getenv, "SIDDEC_MEASURED_VOLUME", d.MeasuredVolume)
	d.MOS8580 = envBool(getenv, "SIDDEC_MOS8580", d.MOS8580)
	d.ForceSpeed = envBool(getenv, "SIDDEC_FORCE_SPEED", d.ForceSpeed)
	d.ForceClock = envBool(getenv, "SIDDEC_FORCE_CLOCK", d.ForceClock)
	d.Sampling = envStr(getenv, "SIDDEC_SAMPLING", d.Sampling)
	d.FastSampling = envBool(getenv, "SIDDEC_FAST_SAMPLING", d.FastSampling)
	d.SongLength = envStr(getenv, "SIDDEC_SONG_LENGTH", d.SongLength)

	c.Output.Rate = envInt(getenv, "SIDDEC_RATE", c.Output.Rate)
	c.Output.Channels = envInt(getenv, "SIDDEC_CHANNELS", c.Output.Channels)
	c.Output.Order = envStr(getenv, "SIDDEC_ORDER", c.Output.Order)

	c.Server.Addr = envStr(getenv, "SIDDEC_ADDR", c.Server.Addr)
	c.Server.Library = envStr(getenv, "SIDDEC_LIBRARY", c.Server.Library)
}

// Save writes the configuration to its path.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Element converts the decoder settings, validating each one as the
// element would.
func (c *Config) Element() (element.Config, error) {
	ec := element.DefaultConfig()
	props := []struct {
		name  string
		value any
	}{
		{element.PropTune, c.Decoder.Tune},
		{element.PropBlockSize, c.Decoder.BlockSize},
		{element.PropClock, c.Decoder.Clock},
		{element.PropFilter, c.Decoder.Filter},
		{element.PropMeasuredVolume, c.Decoder.MeasuredVolume},
		{element.PropMOS8580, c.Decoder.MOS8580},
		{element.PropForceSpeed, c.Decoder.ForceSpeed},
		{element.PropForceClock, c.Decoder.ForceClock},
		{element.PropSampling, c.Decoder.Sampling},
		{element.PropFastSampling, c.Decoder.FastSampling},
	}
	for _, p := range props {
		if err := ec.Set(p.name, p.value); err != nil {
			return ec, fmt.Errorf("decoder.%s: %w", p.name, err)
		}
	}
	return ec, nil
}

// ByteOrder parses Output.Order.
func (c *Config) ByteOrder() (audio.Endianness, error) {
	switch strings.ToLower(c.Output.Order) {
	case "", "native":
		return audio.EndianAny, nil
	case "le", "little":
		return audio.LittleEndian, nil
	case "be", "big":
		return audio.BigEndian, nil
	}
	return audio.EndianAny, fmt.Errorf("output.order: unknown byte order %q", c.Output.Order)
}

// SongLength parses Decoder.SongLength.
func (c *Config) SongLength() (time.Duration, error) {
	d, err := time.ParseDuration(c.Decoder.SongLength)
	if err != nil {
		return 0, fmt.Errorf("decoder.song_length: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("decoder.song_length: %s is not positive", d)
	}
	return d, nil
}

func envStr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	if v := getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
