// Package parser decodes the OOXML parts of a workbook needed to build gallery records.
package parser

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

// Well-known archive locations.
const (
	MediaDir          = "xl/media/"
	DrawingsDir       = "xl/drawings/"
	SharedStringsPath = "xl/sharedStrings.xml"
	WorkbookPath      = "xl/workbook.xml"
	WorkbookRelsPath  = "xl/_rels/workbook.xml.rels"
	DefaultSheetPath  = "xl/worksheets/sheet1.xml"
)

// readZipFile returns the content of the named entry, or nil when absent.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// Index returns a membership test over the archive entry names.
func Index(r *zip.Reader) func(string) bool {
	names := make(map[string]struct{}, len(r.File))
	for _, f := range r.File {
		names[f.Name] = struct{}{}
	}
	return func(name string) bool {
		_, ok := names[name]
		return ok
	}
}

// readElementText collects the character data of the current element.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// attr returns the value of the attribute with the given local name.
func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// resolveRelativePath resolves a workbook relationship target against baseDir.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	return baseDir + "/" + target
}

// NormalizeMediaTarget maps a drawing relationship target onto the xl/ root.
//
//	../media/image1.png  -> xl/media/image1.png
//	media/image1.png     -> xl/media/image1.png
//	/xl/media/image1.png -> xl/media/image1.png
func NormalizeMediaTarget(target string) string {
	t := strings.TrimPrefix(target, "/")
	if strings.HasPrefix(t, "../") {
		return strings.Replace(t, "../", "xl/", 1)
	}
	if !strings.HasPrefix(t, "xl/") {
		return "xl/" + t
	}
	return t
}
