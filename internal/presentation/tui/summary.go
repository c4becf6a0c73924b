package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintSummary writes the resume prompt card for a stored session.
// Colors degrade to plain text when w is not a terminal.
func PrintSummary(w io.Writer, id string, s domain.Summary) {
	out := termenv.NewOutput(w)

	title := out.String("Resume where you left off?").Bold()
	if id != "" {
		title = out.String("Resume " + id + "?").Bold()
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  %s %s\n", out.String("Customer:").Faint(), out.String(s.CustomerName).Foreground(out.Color("#2dd4bf")))
	fmt.Fprintf(w, "  %s %s\n", out.String("Step:    ").Faint(), stepLabel(s.Step))
	fmt.Fprintf(w, "  %s %s\n", out.String("Saved:   ").Faint(), s.SavedAt)
}

// PrintNoSession writes the message shown when nothing can be resumed.
func PrintNoSession(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String("No session to resume.").Faint())
}

func stepLabel(step int) string {
	s := domain.WorkflowStep(step)
	return fmt.Sprintf("%d of %d (%s)", step, int(domain.LastStep), s)
}
