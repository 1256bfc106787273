// Package ui renders run summaries, history and the catalog for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks terminal or text from the output stream
	FormatAuto Format = iota
	// FormatTerminal renders with colors and styling
	FormatTerminal
	// FormatText renders without any styling
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat determines the output format for w
func DetectFormat(w io.Writer) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	file, ok := w.(*os.File)
	if !ok {
		return FormatText
	}
	if !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
		return FormatText
	}

	if termenv.NewOutput(file).Profile == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve turns FormatAuto into a concrete format for w
func Resolve(f Format, w io.Writer) Format {
	if f == FormatAuto {
		return DetectFormat(w)
	}
	return f
}

// Apply switches pterm styling on or off for f
func Apply(f Format) {
	if f == FormatText {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}
}
