package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"notefiber-sync/internal/entity"

	"github.com/fatih/color"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	tagColor   = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
)

func printError(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
}

func printSuccess(format string, args ...interface{}) {
	color.Green(format, args...)
}

func printNoteLine(w io.Writer, n entity.Note) {
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		dimColor.Sprint(n.Id),
		n.Date,
		tagColor.Sprintf("%-8s", n.Tag),
		titleColor.Sprint(n.Title),
	)
}

func printNote(w io.Writer, n entity.Note) {
	titleColor.Fprintln(w, n.Title)
	fmt.Fprintf(w, "%s  %s  %s\n\n", tagColor.Sprint(n.Tag), n.Date, dimColor.Sprint(n.Id))
	fmt.Fprintln(w, n.Body)
}

// prompt reads one line from r after printing label. The trailing newline
// is stripped.
func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(r *bufio.Reader, w io.Writer, question string) bool {
	answer, err := prompt(r, w, question+" [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
