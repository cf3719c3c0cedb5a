// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/siddec"
	"github.com/ik5/siddec/pipeline"
	"github.com/ik5/siddec/playback"
)

func newPlayCmd(a *app) *cobra.Command {
	var latency = playback.DefaultLatency

	cmd := &cobra.Command{
		Use:   "play <tune.sid>",
		Short: "Play a tune on the default output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := a.driver()
			if err != nil {
				return err
			}
			ecfg, err := a.elementConfig()
			if err != nil {
				return err
			}

			in, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			sink := playback.New(a.preferredCaps(), playback.WithLatency(latency), playback.WithLogger(a.log))
			res, err := siddec.Decode(ctx, in, driver, sink, ecfg, pipeline.WithLogger(a.log))
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(cmd.OutOrStdout(), "stopped")
				return nil
			}
			if err != nil {
				return err
			}

			printBlock(cmd.OutOrStdout(), res.Info.Title, []field{
				{"author", res.Info.Author},
				{"played", res.Duration.String()},
			})
			return nil
		},
	}
	a.addDecoderFlags(cmd)
	cmd.Flags().DurationVar(&latency, "latency", latency, "audio buffered ahead of the device")
	return cmd
}
