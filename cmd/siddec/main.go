// SPDX-License-Identifier: EPL-2.0

// Command siddec decodes, plays and streams Commodore 64 SID tunes.
//
// Usage:
//
//	siddec [flags] <command> [args]
//
// Commands:
//
//	decode   - Render a tune to a WAV, AIFF or raw PCM file
//	play     - Play a tune on the default output device
//	info     - Show the header of one or more tunes
//	serve    - Stream tunes to websocket clients
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/ik5/siddec/cmd/siddec/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
