package xlgallery

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/parser"
)

// Result is the outcome of one extraction run.
type Result struct {
	// Records holds one record per non-header worksheet row, in sheet order.
	Records []models.Record
	// Diagnostics counts what was skipped or degraded along the way.
	Diagnostics models.Diagnostics
}

// Extract reads the workbook at path and builds its gallery records.
func Extract(path string, opts Options) (*Result, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	opts.logger().Info("reading workbook", "path", path)
	r, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
		}
		return nil, err
	}
	defer r.Close()

	return extract(&r.Reader, opts)
}

// ExtractReader builds gallery records from an in-memory or seekable workbook.
func ExtractReader(ra io.ReaderAt, size int64, opts Options) (*Result, error) {
	r, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return extract(r, opts)
}

// ExtractBytes is ExtractReader over a byte slice.
func ExtractBytes(data []byte, opts Options) (*Result, error) {
	return ExtractReader(bytes.NewReader(data), int64(len(data)), opts)
}

func extract(r *zip.Reader, opts Options) (*Result, error) {
	log := opts.logger()
	var diag models.Diagnostics

	strs := parser.ParseSharedStrings(r, log, &diag)

	media, err := parser.LoadMedia(r, log, &diag)
	if err != nil {
		return nil, NewExtractionError(parser.MediaDir, "media", err)
	}

	drawings := parser.ParseDrawings(r, log, &diag)
	rowImages := parser.ResolveRowImages(drawings, media, parser.Index(r), log, &diag)

	sheetPath := opts.SheetPath
	if sheetPath == "" {
		sheetPath = parser.FirstWorksheetPath(r)
	}
	sheetXML, err := parser.ReadWorksheet(r, sheetPath)
	if err != nil {
		return nil, NewExtractionError(sheetPath, "worksheet", err)
	}

	records, err := parser.ComposeRecords(sheetXML, strs, rowImages, log, &diag)
	if err != nil {
		return nil, NewExtractionError(sheetPath, "worksheet", err)
	}

	if diag.Degraded() {
		log.Warn("extraction degraded", "summary", diag.String())
	}
	return &Result{Records: records, Diagnostics: diag}, nil
}
