// Package models defines data structures shared by the extractor and the gallery.
package models

// Record is one data row of the workbook, ready for the gallery.
type Record struct {
	// Name comes from column A.
	Name string `json:"name"`
	// Type comes from column B and drives the gallery filters.
	Type string `json:"type"`
	// Website comes from column C.
	Website string `json:"website"`
	// Description comes from column D.
	Description string `json:"description"`
	// Image is a data URL of the picture anchored to the row, or empty.
	Image string `json:"image"`
}

// HasImage reports whether the record carries an image data URL.
func (r Record) HasImage() bool {
	return r.Image != ""
}
