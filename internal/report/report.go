// Package report renders a troubleshooting report for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"wlandoctor/internal/model"
)

// Format selects the report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// Options tunes rendering.
type Options struct {
	Format  Format
	NoColor bool
	// Verbose adds the run id and the data gaps to text output.
	Verbose bool
}

// Write renders rep to w in the selected format.
func Write(w io.Writer, rep *model.Report, opts Options) error {
	if opts.Format == FormatJSON {
		return WriteJSON(w, rep)
	}
	return WriteText(w, rep, opts)
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
