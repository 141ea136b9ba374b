package parser

import (
	"log/slog"
	"strings"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// ResolveRowImages builds the 1-based row -> data URL table. Drawings and
// anchors are visited in order; the first image resolved for a row wins.
// exists reports whether the archive holds an entry of the given name.
func ResolveRowImages(drawings []models.Drawing, media models.MediaTable, exists func(string) bool, log *slog.Logger, diag *models.Diagnostics) map[int]string {
	rowToImage := make(map[int]string)

	for _, d := range drawings {
		for _, a := range d.Anchors {
			target, ok := d.Rels[a.RelID]
			if !ok || target == "" {
				log.Debug("unresolved relationship", "part", d.Path, "rel_id", a.RelID, "row", a.Row)
				diag.UnresolvedRelationships++
				continue
			}

			key := mediaKey(target, exists)
			dataURL, ok := media[key]
			if !ok {
				log.Debug("no media for anchor", "part", d.Path, "media", key, "row", a.Row)
				diag.MissingMedia++
				continue
			}

			if _, taken := rowToImage[a.Row]; taken {
				log.Info("multiple images for row; keeping first", "row", a.Row, "part", d.Path)
				diag.DuplicateRowImages++
				continue
			}
			rowToImage[a.Row] = dataURL
		}
	}

	diag.MappedRows = len(rowToImage)
	log.Info("mapped images to rows", "rows", len(rowToImage))
	return rowToImage
}

// mediaKey turns a relationship target into the archive key of the media
// entry, repairing targets of the form xl/drawings/../media/x.png.
func mediaKey(target string, exists func(string) bool) string {
	key := target
	if !strings.HasPrefix(key, "xl/") {
		key = "xl/" + key
	}
	if exists != nil && !exists(key) {
		key = strings.Replace(key, "xl/drawings/../", "xl/", 1)
	}
	return key
}
