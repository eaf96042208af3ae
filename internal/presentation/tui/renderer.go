package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/tweak/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderFunc turns markdown into terminal output.
type RenderFunc func(markdown string) (string, error)

// NewRenderer returns a RenderFunc using glamour. style is a glamour standard
// style name ("dark", "light", "notty"...); empty detects the terminal background.
func NewRenderer(style string) (RenderFunc, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return r.Render, nil
}

// StyleFor picks a style for f: auto-detected on a terminal, plain otherwise.
func StyleFor(f *os.File) string {
	if f != nil && term.IsTerminal(int(f.Fd())) {
		return ""
	}
	return "notty"
}

// FrameMarkdown renders every window of frame as a markdown table.
// Closed windows are listed without their rows.
func FrameMarkdown(frame domain.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Frame %d\n", frame.Seq)
	for _, w := range frame.Windows {
		b.WriteString("\n## " + w.Title)
		if !w.Open {
			b.WriteString(" (closed)\n")
			continue
		}
		b.WriteString("\n\n| Label | Type | Value |\n|---|---|---:|\n")
		for _, r := range w.Rows {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Label, r.Kind, FormatValue(r.Kind, r.Value))
		}
	}
	return b.String()
}

// FormatValue prints v the way its kind displays it: integers without a
// fraction, float32 with float32 precision.
func FormatValue(k domain.Kind, v float64) string {
	switch {
	case k == domain.KindFloat32:
		return strconv.FormatFloat(v, 'g', -1, 32)
	case k.IsFloat():
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}
