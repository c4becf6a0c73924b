package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Waypoint banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Teal to indigo, one shade per line
	lines := []struct{ text, color string }{
		{" __      __                      _       _   ", "#2dd4bf"},
		{" \\ \\    / /_ _ _  _ _ __  ___ (_)_ _ | |_ ", "#38bdf8"},
		{"  \\ \\/\\/ / _` | || | '_ \\/ _ \\| | ' \\|  _|", "#60a5fa"},
		{"   \\_/\\_/\\__,_|\\_, | .__/\\___/|_|_||_|\\__|", "#818cf8"},
		{"               |__/|_|                      ", "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
