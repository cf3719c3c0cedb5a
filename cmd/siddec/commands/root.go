// SPDX-License-Identifier: EPL-2.0

// Package commands implements the siddec command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/engine/headless"
	"github.com/ik5/siddec/internal/config"
)

// app holds the state shared by every command of one invocation.
type app struct {
	configPath string
	verbose    bool

	// decoder overrides; applied only when the flag was given
	tune     int
	clock    string
	block    int
	rate     int
	channels int
	mos8580  bool
	noFilter bool
	length   time.Duration

	cfg *config.Config
	log *slog.Logger
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "siddec",
		Short: "Decode Commodore 64 SID tunes",
		Long: `siddec - render PSID and RSID tunes to PCM.

Settings are read from ~/.siddec/config.yaml, then from SIDDEC_*
environment variables, then from flags.

Examples:
  # Render song 3 to a WAV file at 44.1kHz stereo
  siddec decode --tune 3 --rate 44100 --channels 2 Commando.sid commando.wav

  # Play a tune
  siddec play Delta.sid

  # Serve a directory of tunes on :8080
  siddec serve --library ~/C64Music`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.siddec/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newDecodeCmd(a),
		newPlayCmd(a),
		newInfoCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)
	return root
}

// addDecoderFlags registers the flags that override decoder settings.
func (a *app) addDecoderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&a.tune, "tune", "t", 0, "sub-tune to play, 0 for the start song")
	f.StringVar(&a.clock, "clock", "", "default video clock: pal, ntsc or any")
	f.IntVar(&a.block, "blocksize", 0, "bytes per output buffer")
	f.IntVarP(&a.rate, "rate", "r", 0, "output sample rate")
	f.IntVarP(&a.channels, "channels", "c", 0, "output channels, 1 or 2")
	f.BoolVar(&a.mos8580, "mos8580", false, "emulate the MOS 8580 SID")
	f.BoolVar(&a.noFilter, "no-filter", false, "disable the SID filter")
	f.DurationVarP(&a.length, "length", "l", 0, "song length for the headless driver")
}

func (a *app) init(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	d := &cfg.Decoder
	if f.Changed("tune") {
		d.Tune = a.tune
	}
	if f.Changed("clock") {
		d.Clock = a.clock
	}
	if f.Changed("blocksize") {
		d.BlockSize = a.block
	}
	if f.Changed("mos8580") {
		d.MOS8580 = a.mos8580
	}
	if f.Changed("no-filter") {
		d.Filter = !a.noFilter
	}
	if f.Changed("length") {
		d.SongLength = a.length.String()
	}
	if f.Changed("rate") {
		cfg.Output.Rate = a.rate
	}
	if f.Changed("channels") {
		cfg.Output.Channels = a.channels
	}

	a.cfg = cfg
	return nil
}

// driver resolves the configured engine driver.
func (a *app) driver() (engine.Driver, error) {
	length, err := a.cfg.SongLength()
	if err != nil {
		return nil, err
	}
	reg := engine.NewRegistry()
	reg.Register(headless.New(length))
	return reg.Lookup(a.cfg.Driver)
}

func (a *app) elementConfig() (element.Config, error) {
	return a.cfg.Element()
}

func (a *app) preferredCaps() audio.Caps {
	return audio.Caps{Rate: a.cfg.Output.Rate, Channels: a.cfg.Output.Channels}
}

// signalContext is cancelled by SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tune: %w", err)
	}
	return f, nil
}
