// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/siddec/element"
)

// Version is set at build time with -ldflags "-X ...commands.Version=v1.2.3".
var Version = "dev"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "siddec %s\n", Version)
			if a.verbose {
				fmt.Fprintf(w, "  go:         %s\n", runtime.Version())
				fmt.Fprintf(w, "  driver:     %s\n", a.cfg.Driver)
				fmt.Fprintf(w, "  config:     %s\n", a.cfg.Path())
				fmt.Fprintf(w, "  properties: %s\n", strings.Join(element.Properties(), ", "))
			}
			return nil
		},
	}
}
