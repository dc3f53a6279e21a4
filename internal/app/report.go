package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/dagselect/internal/executor"
)

var (
	colorOK    = lipgloss.Color("#2CD7C7")
	colorWarn  = lipgloss.Color("#F4D03F")
	colorError = lipgloss.Color("#E74C3C")
	colorMuted = lipgloss.Color("#2C4A54")
)

var statusLabels = map[executor.Status]string{
	executor.StatusSuccess: "OK",
	executor.StatusPass:    "PASS",
	executor.StatusWarn:    "WARN",
	executor.StatusFail:    "FAIL",
	executor.StatusError:   "ERROR",
	executor.StatusSkipped: "SKIP",
}

// reportStyles are bound to one writer so colors are dropped when the
// writer is not a terminal.
type reportStyles struct {
	byStatus map[executor.Status]lipgloss.Style
	muted    lipgloss.Style
	bold     lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Bold(true).Width(5)
	return reportStyles{
		byStatus: map[executor.Status]lipgloss.Style{
			executor.StatusSuccess: label.Foreground(colorOK),
			executor.StatusPass:    label.Foreground(colorOK),
			executor.StatusWarn:    label.Foreground(colorWarn),
			executor.StatusFail:    label.Foreground(colorError),
			executor.StatusError:   label.Foreground(colorError),
			executor.StatusSkipped: label.Foreground(colorMuted),
		},
		muted: r.NewStyle().Foreground(colorMuted),
		bold:  r.NewStyle().Bold(true),
	}
}

// renderReport prints one line per node followed by a summary line.
func renderReport(w io.Writer, report *executor.Report) {
	styles := newReportStyles(w)

	for i, res := range report.Results {
		label := styles.byStatus[res.Status].Render(statusLabels[res.Status])
		line := fmt.Sprintf("%d of %d %s %s", i+1, len(report.Results), label, res.Node)
		if res.Message != "" {
			line += " " + styles.muted.Render("("+res.Message+")")
		}
		fmt.Fprintln(w, line)
	}

	counts := report.Counts()
	fmt.Fprintln(w, styles.bold.Render(fmt.Sprintf(
		"Done. OK=%d PASS=%d WARN=%d FAIL=%d ERROR=%d SKIP=%d TOTAL=%d",
		counts[executor.StatusSuccess],
		counts[executor.StatusPass],
		counts[executor.StatusWarn],
		counts[executor.StatusFail],
		counts[executor.StatusError],
		counts[executor.StatusSkipped],
		len(report.Results),
	)))
}
