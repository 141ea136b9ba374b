package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// anchorElements lists the anchor kinds that attach a picture to a cell.
// absoluteAnchor has no row and is not listed.
var anchorElements = map[string]bool{
	"oneCellAnchor": true,
	"twoCellAnchor": true,
}

// ParseDrawings parses every drawing part of the archive, in archive order.
// Failures are confined to the drawing part they occur in.
func ParseDrawings(r *zip.Reader, log *slog.Logger, diag *models.Diagnostics) []models.Drawing {
	var drawings []models.Drawing

	for _, f := range r.File {
		if !isDrawingPart(f.Name) {
			continue
		}
		diag.Drawings++

		drawing := models.Drawing{
			Path: f.Name,
			Rels: loadDrawingRels(r, f.Name, log, diag),
		}

		data, err := readZipFile(r, f.Name)
		if err == nil {
			var skipped int
			drawing.Anchors, skipped, err = parseDrawingXML(data)
			diag.AnchorsSkipped += skipped
		}
		if err != nil {
			log.Warn("failed parsing drawing", "part", f.Name, "error", err)
			diag.DrawingsFailed++
			drawing.Anchors = nil
		} else {
			log.Info("parsed drawing anchors", "part", f.Name, "anchors", len(drawing.Anchors))
		}
		diag.Anchors += len(drawing.Anchors)

		drawings = append(drawings, drawing)
	}

	return drawings
}

func isDrawingPart(name string) bool {
	return strings.HasPrefix(name, DrawingsDir) && strings.HasSuffix(name, ".xml")
}

// DrawingRelsPath returns the relationship part of a drawing part.
func DrawingRelsPath(drawingPath string) string {
	return strings.Replace(drawingPath, DrawingsDir, DrawingsDir+"_rels/", 1) + ".rels"
}

func loadDrawingRels(r *zip.Reader, drawingPath string, log *slog.Logger, diag *models.Diagnostics) models.RelationshipMap {
	relsPath := DrawingRelsPath(drawingPath)

	data, err := readZipFile(r, relsPath)
	if err == nil && data == nil {
		log.Debug("drawing has no relationships", "part", drawingPath, "rels", relsPath)
		diag.RelsMissing++
		return models.RelationshipMap{}
	}
	var rels models.RelationshipMap
	if err == nil {
		rels, err = parseDrawingRels(data)
	}
	if err != nil {
		log.Warn("could not parse rels", "part", drawingPath, "rels", relsPath, "error", err)
		diag.RelsFailed++
		return models.RelationshipMap{}
	}
	return rels
}

// parseDrawingRels maps relationship ids to normalized media paths.
func parseDrawingRels(data []byte) (models.RelationshipMap, error) {
	result := make(models.RelationshipMap)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		if strings.EqualFold(attr(se, "TargetMode"), "External") {
			continue
		}
		id, target := attr(se, "Id"), attr(se, "Target")
		if id != "" && target != "" {
			result[id] = NormalizeMediaTarget(target)
		}
	}

	return result, nil
}

// parseDrawingXML returns the picture anchors of a drawing part in document
// order, plus the number of anchors lacking a row or a relationship id.
func parseDrawingXML(data []byte) ([]models.DrawingAnchor, int, error) {
	var anchors []models.DrawingAnchor
	skipped := 0

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		se, ok := token.(xml.StartElement)
		if !ok || !anchorElements[se.Name.Local] {
			continue
		}
		anchor, err := parseAnchor(decoder)
		if err != nil {
			return nil, 0, err
		}
		if anchor.Row < 1 || anchor.RelID == "" {
			skipped++
			continue
		}
		anchors = append(anchors, anchor)
	}

	return anchors, skipped, nil
}

// parseAnchor reads one anchor element up to its end tag. Row is left at zero
// when the from/row marker is missing or not numeric. In a grouped anchor the
// first picture carrying a blip wins.
func parseAnchor(decoder *xml.Decoder) (models.DrawingAnchor, error) {
	var anchor models.DrawingAnchor
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return anchor, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from":
				row, err := parseAnchorFrom(decoder)
				if err != nil {
					return anchor, err
				}
				anchor.Row = row
				depth--
			case "pic":
				relID, err := parsePicture(decoder)
				if err != nil {
					return anchor, err
				}
				if anchor.RelID == "" {
					anchor.RelID = relID
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return anchor, nil
}

// parseAnchorFrom returns the 1-based row of a from marker, or 0.
func parseAnchorFrom(decoder *xml.Decoder) (int, error) {
	row := 0
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return 0, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "row" {
				txt, err := readElementText(decoder)
				if err != nil {
					return 0, err
				}
				if n, err := strconv.Atoi(strings.TrimSpace(txt)); err == nil {
					row = n + 1
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return row, nil
}

// parsePicture returns the embed id of the blip inside the picture's blipFill.
func parsePicture(decoder *xml.Decoder) (string, error) {
	var relID string
	depth := 1
	blipFillDepth := 0

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "blipFill":
				if blipFillDepth == 0 {
					blipFillDepth = depth
				}
			case "blip":
				if blipFillDepth > 0 && relID == "" {
					relID = attr(t, "embed")
				}
			}
		case xml.EndElement:
			if depth == blipFillDepth {
				blipFillDepth = 0
			}
			depth--
		}
	}

	return relID, nil
}
