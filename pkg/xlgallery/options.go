// Package xlgallery converts a workbook into gallery records, attaching to
// each row the picture anchored on it.
package xlgallery

import (
	"io"
	"log/slog"
)

// Default file names used by the command line when no flag overrides them.
const (
	DefaultInput  = "realdata.xlsx"
	DefaultOutput = "data.json"
)

// Options configures extraction behavior.
type Options struct {
	// Logger receives progress and degradation messages.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
	// SheetPath forces the worksheet part to read (e.g. "xl/worksheets/sheet2.xml").
	// If empty, the first sheet of the workbook is used.
	SheetPath string
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// DiscardLogger returns a logger that drops every message.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
