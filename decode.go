// SPDX-License-Identifier: EPL-2.0

package siddec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/formats/aiff"
	"github.com/ik5/siddec/formats/raw"
	"github.com/ik5/siddec/formats/wav"
	"github.com/ik5/siddec/pipeline"
)

// ErrUnknownFormat is returned for an output path without a registered
// encoder.
var ErrUnknownFormat = errors.New("unknown output format")

// Encoders returns a registry holding the file encoders: wav, aiff (also
// as aif) and raw (also as pcm).
func Encoders() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Encoder{})
	reg.Register("aiff", aiff.Encoder{})
	reg.Register("aif", aiff.Encoder{})
	reg.Register("raw", raw.Encoder{})
	reg.Register("pcm", raw.Encoder{})
	return reg
}

// EncoderFor picks the encoder for path by its extension.
func EncoderFor(path string) (audio.Encoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	reg := Encoders()
	enc, ok := reg.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownFormat, ext, strings.Join(reg.Formats(), ", "))
	}
	return enc, nil
}

// Decode renders the tune read from r into sink with cfg. The sink is
// closed before Decode returns.
func Decode(ctx context.Context, r io.Reader, driver engine.Driver, sink audio.Sink, cfg element.Config, opts ...pipeline.Option) (*pipeline.Result, error) {
	opts = append([]pipeline.Option{pipeline.WithElementOptions(element.WithConfig(cfg))}, opts...)
	return pipeline.Run(ctx, r, driver, sink, opts...)
}

// DecodeFile is Decode into w, encoded as the extension of name asks.
func DecodeFile(ctx context.Context, r io.Reader, w io.Writer, name string, driver engine.Driver, cfg element.Config, opts ...pipeline.Option) (*pipeline.Result, error) {
	enc, err := EncoderFor(name)
	if err != nil {
		return nil, err
	}
	sink, err := enc.Encode(w, audio.Caps{})
	if err != nil {
		return nil, err
	}
	return Decode(ctx, r, driver, sink, cfg, opts...)
}
