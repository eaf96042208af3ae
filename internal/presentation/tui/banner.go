package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tweak ASCII art banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _                      _    ", "#34d399"},
		{" | |___      _____  __ _| | __", "#2dd4bf"},
		{" | __\\ \\ /\\ / / _ \\/ _` | |/ /", "#22d3ee"},
		{" | |_ \\ V  V /  __/ (_| |   < ", "#38bdf8"},
		{"  \\__| \\_/\\_/ \\___|\\__,_|_|\\_\\", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
