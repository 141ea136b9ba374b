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
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// ErrWorksheetMissing indicates the archive has no readable first worksheet.
var ErrWorksheetMissing = errors.New("worksheet part not found")

// HeaderRow is the declared row number skipped as the header.
const HeaderRow = 1

// Columns mapped onto record fields.
const (
	NameColumn        = 1 // A
	TypeColumn        = 2 // B
	WebsiteColumn     = 3 // C
	DescriptionColumn = 4 // D
)

type xlsxWorksheet struct {
	XMLName   xml.Name      `xml:"worksheet"`
	SheetData xlsxSheetData `xml:"sheetData"`
}

type xlsxSheetData struct {
	Rows []xlsxRow `xml:"row"`
}

type xlsxRow struct {
	R string  `xml:"r,attr"`
	C []xlsxC `xml:"c"`
}

type xlsxC struct {
	R  string  `xml:"r,attr"`
	T  string  `xml:"t,attr"`
	V  *string `xml:"v"`
	IS *xlsxSI `xml:"is"`
}

// newlineReplacer collapses escaped and decoded newline markers.
var newlineReplacer = strings.NewReplacer(`\n`, " ", "&#10;", " ", "\n", " ")

// FirstWorksheetPath locates the first sheet of the workbook through the
// workbook relationships, falling back to xl/worksheets/sheet1.xml.
func FirstWorksheetPath(r *zip.Reader) string {
	exists := Index(r)

	workbookXML, err := readZipFile(r, WorkbookPath)
	if err != nil || workbookXML == nil {
		return DefaultSheetPath
	}
	rID := firstSheetRelID(workbookXML)
	if rID == "" {
		return DefaultSheetPath
	}

	wbRelsXML, err := readZipFile(r, WorkbookRelsPath)
	if err != nil || wbRelsXML == nil {
		return DefaultSheetPath
	}
	target := relationshipTarget(wbRelsXML, rID)
	if target == "" {
		return DefaultSheetPath
	}

	sheetPath := resolveRelativePath(target, "xl")
	if !exists(sheetPath) {
		return DefaultSheetPath
	}
	return sheetPath
}

// firstSheetRelID returns the r:id of the first sheet element of workbook.xml.
func firstSheetRelID(data []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return ""
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			return attr(se, "id")
		}
	}
}

// relationshipTarget returns the Target of the relationship with the given Id.
func relationshipTarget(data []byte, rID string) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return ""
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" && attr(se, "Id") == rID {
			return attr(se, "Target")
		}
	}
}

// ReadWorksheet returns the raw XML of the given worksheet part.
func ReadWorksheet(r *zip.Reader, sheetPath string) ([]byte, error) {
	data, err := readZipFile(r, sheetPath)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrWorksheetMissing
	}
	return data, nil
}

// ComposeRecords turns worksheet rows into records, skipping the header row.
// Rows keep their document order and declared row numbers.
func ComposeRecords(sheetXML []byte, strs models.SharedStringTable, rowImages map[int]string, log *slog.Logger, diag *models.Diagnostics) ([]models.Record, error) {
	var ws xlsxWorksheet
	if err := xml.Unmarshal(sheetXML, &ws); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	records := make([]models.Record, 0, len(ws.SheetData.Rows))
	for _, row := range ws.SheetData.Rows {
		rowNum, err := strconv.Atoi(strings.TrimSpace(row.R))
		if err != nil {
			log.Debug("row without number", "r", row.R)
			diag.RowsWithoutNumber++
			rowNum = 0
		}
		if rowNum == HeaderRow {
			continue
		}

		var rec models.Record
		for i := range row.C {
			c := &row.C[i]
			val := NormalizeValue(cellValue(c, strs))
			switch ColumnNumber(c.R) {
			case NameColumn:
				rec.Name = val
			case TypeColumn:
				rec.Type = val
			case WebsiteColumn:
				rec.Website = val
			case DescriptionColumn:
				rec.Description = val
			}
		}
		if rowNum > 0 {
			rec.Image = rowImages[rowNum]
		}

		records = append(records, rec)
	}

	diag.Records = len(records)
	return records, nil
}

// cellValue reads a cell through the shared string table when t="s",
// otherwise its literal value or inline string.
func cellValue(c *xlsxC, strs models.SharedStringTable) string {
	if c.V != nil {
		if c.T == "s" {
			idx, ok := leadingInt(*c.V)
			if !ok {
				return ""
			}
			return strs.Lookup(idx)
		}
		return *c.V
	}
	if c.IS != nil {
		return c.IS.String()
	}
	return ""
}

// leadingInt parses the integer prefix of s after leading spaces, so "1.0"
// and "3 " both yield an index.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeValue replaces newline markers with a space and trims the result.
func NormalizeValue(s string) string {
	return strings.TrimSpace(newlineReplacer.Replace(s))
}

// ColumnNumber returns the 1-based column of a cell reference ("AB12" -> 28),
// or 0 when the reference names no column. A reference without a valid row
// part is resolved from its letters alone.
func ColumnNumber(ref string) int {
	if col, _, err := excelize.CellNameToCoordinates(ref); err == nil {
		return col
	}
	letters := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, ref)
	if letters == "" {
		return 0
	}
	col, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0
	}
	return col
}
