// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/siddec/stream"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, library string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream tunes to websocket clients",
		Long: `Serve the tunes under a library directory.

Clients connect to ws://<addr>/tunes/<path>?tune=N&rate=R&channels=C
and receive msgpack frames: format, tags, segment, buffer..., eos.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("library") {
				a.cfg.Server.Library = library
			}

			driver, err := a.driver()
			if err != nil {
				return err
			}
			ecfg, err := a.elementConfig()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			srv := stream.NewServer(os.DirFS(a.cfg.Server.Library), driver, ecfg, a.log)
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}
	a.addDecoderFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&library, "library", "", "directory of .sid files (default .)")
	return cmd
}
