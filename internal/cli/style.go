package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	severityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func printStatus(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, statusStyle.Render(fmt.Sprintf(format, args...)))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(format, args...)))
}
