package models

// SharedStringTable is the workbook-wide string pool referenced by cell index.
type SharedStringTable []string

// Lookup returns the i-th shared string, or "" when i is out of range.
func (t SharedStringTable) Lookup(i int) string {
	if i < 0 || i >= len(t) {
		return ""
	}
	return t[i]
}

// MediaTable maps an archive path (e.g. "xl/media/image1.png") to its data URL.
type MediaTable map[string]string

// RelationshipMap maps a relationship id to a normalized archive path.
type RelationshipMap map[string]string

// DrawingAnchor attaches a picture relationship to a worksheet row.
type DrawingAnchor struct {
	// Row is the 1-based worksheet row the picture starts on.
	Row int
	// RelID is the relationship id referenced by the picture's blip fill.
	RelID string
}

// Drawing holds the anchors and relationships of one drawing part.
type Drawing struct {
	// Path is the archive path of the drawing part.
	Path string
	// Anchors lists the anchors in document order.
	Anchors []DrawingAnchor
	// Rels maps relationship ids to media paths.
	Rels RelationshipMap
}
