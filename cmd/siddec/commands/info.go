// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/siddec/tune"
)

func newInfoCmd(a *app) *cobra.Command {
	var song int

	cmd := &cobra.Command{
		Use:   "info <tune.sid>...",
		Short: "Show the header of one or more tunes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			var failed int
			for _, path := range args {
				info, err := readInfo(path, song)
				if err != nil {
					fmt.Fprintf(w, "%s %s: %v\n", errStyle.Render("error"), path, err)
					failed++
					continue
				}
				printInfo(w, path, info, a.verbose)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tunes could not be read", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&song, "tune", "t", 0, "sub-tune to describe, 0 for the start song")
	return cmd
}

func readInfo(path string, song int) (tune.Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tune.Info{}, err
	}
	t, err := tune.Parse(data)
	if err != nil {
		return tune.Info{}, err
	}
	t.SelectSong(song)
	return t.Info(), nil
}

func printInfo(w io.Writer, path string, info tune.Info, verbose bool) {
	fields := []field{
		{"file", path},
		{"format", info.Format},
		{"author", info.Author},
		{"released", info.Released},
		{"songs", fmt.Sprintf("%d (start %d)", info.Songs, info.StartSong)},
		{"song", fmt.Sprintf("%d, %s", info.CurrentSong, info.Speed)},
		{"clock", info.Clock.String()},
		{"model", info.Model.String()},
		{"chips", fmt.Sprint(info.Chips)},
	}
	if verbose {
		fields = append(fields,
			field{"load", fmt.Sprintf("$%04X", info.LoadAddress)},
			field{"init", fmt.Sprintf("$%04X", info.InitAddress)},
			field{"play", fmt.Sprintf("$%04X", info.PlayAddress)},
			field{"data", fmt.Sprintf("%d bytes", info.DataLength)},
		)
	}
	title := info.Title
	if title == "" {
		title = path
	}
	printBlock(w, title, fields)
}
