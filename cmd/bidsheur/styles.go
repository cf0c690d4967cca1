package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printHeading writes a section title, styled when w is a terminal.
func printHeading(w io.Writer, title string) {
	if shouldColorize(w) {
		title = headingStyle.Render(title)
	}
	fmt.Fprintln(w, title)
}

func printWarning(w io.Writer, msg string) {
	if shouldColorize(w) {
		msg = warnStyle.Render(msg)
	}
	fmt.Fprintln(w, msg)
}

func printMuted(w io.Writer, msg string) {
	if shouldColorize(w) {
		msg = mutedStyle.Render(msg)
	}
	fmt.Fprintln(w, msg)
}
