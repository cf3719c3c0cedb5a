// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primary = lipgloss.Color("#00ff9f")
	dim     = lipgloss.Color("#6e7681")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	labelStyle = lipgloss.NewStyle().Foreground(dim).Width(12)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f87"))
)

type field struct {
	label string
	value string
}

// printBlock writes a title followed by aligned label/value lines.
func printBlock(w io.Writer, title string, fields []field) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(f.label), f.value)
	}
	io.WriteString(w, b.String())
}
