package models

import "fmt"

// Diagnostics counts the recoverable degradations of one extraction run.
type Diagnostics struct {
	// SharedStringsMissing is true when the workbook has no shared string part.
	SharedStringsMissing bool `json:"shared_strings_missing"`
	// SharedStringsFailed is true when the shared string part could not be parsed.
	SharedStringsFailed bool `json:"shared_strings_failed"`
	// SharedStrings is the size of the resolved shared string table.
	SharedStrings int `json:"shared_strings"`
	// MediaFiles is the number of media entries loaded.
	MediaFiles int `json:"media_files"`
	// Drawings is the number of drawing parts visited.
	Drawings int `json:"drawings"`
	// DrawingsFailed counts drawing parts whose body could not be parsed.
	DrawingsFailed int `json:"drawings_failed"`
	// RelsMissing counts drawing parts without a relationship part.
	RelsMissing int `json:"rels_missing"`
	// RelsFailed counts relationship parts that could not be parsed.
	RelsFailed int `json:"rels_failed"`
	// Anchors counts anchors carrying both a row and a relationship id.
	Anchors int `json:"anchors"`
	// AnchorsSkipped counts anchors missing a row or a relationship id.
	AnchorsSkipped int `json:"anchors_skipped"`
	// UnresolvedRelationships counts anchors whose id is not in the drawing rels.
	UnresolvedRelationships int `json:"unresolved_relationships"`
	// MissingMedia counts anchors whose target has no media entry.
	MissingMedia int `json:"missing_media"`
	// DuplicateRowImages counts anchors dropped because the row already had an image.
	DuplicateRowImages int `json:"duplicate_row_images"`
	// MappedRows is the number of rows that received an image.
	MappedRows int `json:"mapped_rows"`
	// RowsWithoutNumber counts worksheet rows with no parseable r attribute.
	RowsWithoutNumber int `json:"rows_without_number"`
	// Records is the number of records emitted.
	Records int `json:"records"`
}

// Degraded reports whether any anchor, relationship or part was dropped.
func (d Diagnostics) Degraded() bool {
	return d.SharedStringsFailed || d.DrawingsFailed > 0 || d.RelsFailed > 0 ||
		d.AnchorsSkipped > 0 || d.UnresolvedRelationships > 0 || d.MissingMedia > 0 ||
		d.DuplicateRowImages > 0 || d.RowsWithoutNumber > 0
}

// String renders a one-line summary suitable for logs.
func (d Diagnostics) String() string {
	return fmt.Sprintf("records=%d media=%d drawings=%d anchors=%d mapped_rows=%d skipped=%d unresolved=%d missing_media=%d duplicates=%d",
		d.Records, d.MediaFiles, d.Drawings, d.Anchors, d.MappedRows,
		d.AnchorsSkipped, d.UnresolvedRelationships, d.MissingMedia, d.DuplicateRowImages)
}
