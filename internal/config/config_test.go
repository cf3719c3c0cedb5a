// SPDX-License-Identifier: EPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/tune"
)

func noEnv(string) string { return "" }

func mapEnv(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(filepath.Join(t.TempDir(), "none.yaml"), noEnv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.Driver != "headless" {
		t.Errorf("Driver = %q, want headless", cfg.Driver)
	}
	if cfg.Decoder.BlockSize != element.DefaultBlockSize {
		t.Errorf("BlockSize = %d, want %d", cfg.Decoder.BlockSize, element.DefaultBlockSize)
	}
	if !cfg.Decoder.Filter || !cfg.Decoder.MeasuredVolume {
		t.Error("Filter and MeasuredVolume should default to true")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}

	ec, err := cfg.Element()
	if err != nil {
		t.Fatalf("Element() error = %v", err)
	}
	if ec != element.DefaultConfig() {
		t.Errorf("Element() = %+v, want defaults", ec)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
driver: headless
decoder:
  tune: 3
  blocksize: 4096
  clock: ntsc
  filter: false
  mos8580: true
  force_clock: true
  sampling: resample-interpolate
  song_length: 90s
output:
  rate: 44100
  channels: 2
  order: be
server:
  library: /srv/hvsc
`)

	cfg, err := load(path, noEnv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	ec, err := cfg.Element()
	if err != nil {
		t.Fatalf("Element() error = %v", err)
	}
	if ec.Tune != 3 || ec.BlockSize != 4096 || ec.Clock != tune.ClockNTSC {
		t.Errorf("Element() = %+v", ec)
	}
	if ec.Filter || !ec.MeasuredVolume || !ec.MOS8580 {
		t.Errorf("booleans = filter %v, measured %v, mos8580 %v", ec.Filter, ec.MeasuredVolume, ec.MOS8580)
	}
	if !ec.ForceClock || ec.Sampling != engine.SamplingResampleInterpolate || ec.FastSampling {
		t.Errorf("clock forcing %v, sampling %v, fast %v", ec.ForceClock, ec.Sampling, ec.FastSampling)
	}
	if d, _ := cfg.SongLength(); d != 90*time.Second {
		t.Errorf("SongLength() = %v, want 90s", d)
	}
	if order, _ := cfg.ByteOrder(); order != audio.BigEndian {
		t.Errorf("ByteOrder() = %v, want big-endian", order)
	}
	if cfg.Output.Rate != 44100 || cfg.Output.Channels != 2 {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Server.Library != "/srv/hvsc" || cfg.Server.Addr != ":8080" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "decoder:\n  tune: 3\n  clock: ntsc\n")
	env := mapEnv(map[string]string{
		"SIDDEC_TUNE":      "7",
		"SIDDEC_CLOCK":     "any",
		"SIDDEC_FILTER":    "false",
		"SIDDEC_RATE":      "22050",
		"SIDDEC_ADDR":      "127.0.0.1:9000",
		"SIDDEC_BLOCKSIZE": "not a number",

		"SIDDEC_FAST_SAMPLING": "true",
	})

	cfg, err := load(path, env)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.Decoder.Tune != 7 || cfg.Decoder.Clock != "any" || cfg.Decoder.Filter {
		t.Errorf("Decoder = %+v", cfg.Decoder)
	}
	if !cfg.Decoder.FastSampling {
		t.Error("SIDDEC_FAST_SAMPLING not applied")
	}
	if cfg.Decoder.BlockSize != element.DefaultBlockSize {
		t.Errorf("unparsable SIDDEC_BLOCKSIZE changed BlockSize to %d", cfg.Decoder.BlockSize)
	}
	if cfg.Output.Rate != 22050 || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Output.Rate = %d, Server.Addr = %q", cfg.Output.Rate, cfg.Server.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	if _, err := load(writeFile(t, "decoder: [unclosed"), noEnv); err == nil {
		t.Error("load() with bad YAML should fail")
	}
}

func TestConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		check  func(*Config) error
	}{
		{"tune range", func(c *Config) { c.Decoder.Tune = 101 }, elementErr},
		{"blocksize range", func(c *Config) { c.Decoder.BlockSize = 100 }, elementErr},
		{"clock", func(c *Config) { c.Decoder.Clock = "secam" }, elementErr},
		{"sampling", func(c *Config) { c.Decoder.Sampling = "sinc" }, elementErr},
		{"song length", func(c *Config) { c.Decoder.SongLength = "forever" }, lengthErr},
		{"negative song length", func(c *Config) { c.Decoder.SongLength = "-1s" }, lengthErr},
		{"byte order", func(c *Config) { c.Output.Order = "middle" }, orderErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.modify(cfg)
			if err := tt.check(cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func elementErr(c *Config) error {
	_, err := c.Element()
	return err
}

func lengthErr(c *Config) error {
	_, err := c.SongLength()
	return err
}

func orderErr(c *Config) error {
	_, err := c.ByteOrder()
	return err
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)
	cfg := Default()
	cfg.path = path
	cfg.Decoder.Tune = 5
	cfg.Output.Channels = 2

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := load(path, noEnv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if loaded.Decoder != cfg.Decoder || loaded.Output != cfg.Output || loaded.Server != cfg.Server {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}
