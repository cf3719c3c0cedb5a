// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/siddec"
	"github.com/ik5/siddec/formats/raw"
	"github.com/ik5/siddec/pipeline"
)

func newDecodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <tune.sid> <output.{wav,aiff,aif,raw,pcm}>",
		Short: "Render a tune to an audio file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.decode(cmd, args[0], args[1])
		},
	}
	a.addDecoderFlags(cmd)
	return cmd
}

func (a *app) decode(cmd *cobra.Command, inPath, outPath string) error {
	enc, err := siddec.EncoderFor(outPath)
	if err != nil {
		return err
	}
	if _, ok := enc.(raw.Encoder); ok {
		order, err := a.cfg.ByteOrder()
		if err != nil {
			return err
		}
		enc = raw.Encoder{Order: order}
	}

	driver, err := a.driver()
	if err != nil {
		return err
	}
	ecfg, err := a.elementConfig()
	if err != nil {
		return err
	}

	in, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()

	sink, err := enc.Encode(out, a.preferredCaps())
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	res, err := siddec.Decode(ctx, in, driver, sink, ecfg, pipeline.WithLogger(a.log))
	if err != nil {
		os.Remove(outPath)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	printBlock(cmd.OutOrStdout(), res.Info.Title, []field{
		{"author", res.Info.Author},
		{"song", fmt.Sprintf("%d of %d", res.Info.CurrentSong, res.Info.Songs)},
		{"format", res.Format.String()},
		{"length", res.Duration.String()},
		{"written", outPath},
	})
	return nil
}
