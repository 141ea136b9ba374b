package xlgallery

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/parser"
)

// createTestPNG generates a small solid PNG image.
func createTestPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// createGalleryWorkbook saves a workbook with a header, three data rows and
// pictures anchored in column E.
func createGalleryWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	rows := [][]any{
		{"Name", "Type", "Website", "Description"},
		{"Acme", "Tool", "https://acme.example", "Anvils\nand rockets"},
		{"Globex", "Service", "", ""},
		{"Initech", "Tool", "https://initech.example", "TPS reports"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	red := createTestPNG(t, color.RGBA{R: 255, A: 255})
	blue := createTestPNG(t, color.RGBA{B: 255, A: 255})
	green := createTestPNG(t, color.RGBA{G: 255, A: 255})
	for _, p := range []struct {
		cell string
		img  []byte
	}{
		{"E2", red},
		{"F2", blue},
		{"E4", green},
	} {
		require.NoError(t, f.AddPictureFromBytes(sheet, p.cell, &excelize.Picture{
			Extension: ".png",
			File:      p.img,
			Format:    &excelize.GraphicOptions{ScaleX: 1, ScaleY: 1},
		}))
	}

	path := filepath.Join(t.TempDir(), "gallery.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExtract_ExcelizeWorkbook(t *testing.T) {
	path := createGalleryWorkbook(t)

	res, err := Extract(path, Options{Logger: DiscardLogger()})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	acme := res.Records[0]
	assert.Equal(t, "Acme", acme.Name)
	assert.Equal(t, "Tool", acme.Type)
	assert.Equal(t, "https://acme.example", acme.Website)
	assert.Equal(t, "Anvils and rockets", acme.Description)
	assert.True(t, strings.HasPrefix(acme.Image, "data:image/png;base64,"))

	assert.Equal(t, "Globex", res.Records[1].Name)
	assert.Empty(t, res.Records[1].Image)

	assert.Equal(t, "Initech", res.Records[2].Name)
	assert.NotEmpty(t, res.Records[2].Image)
	assert.NotEqual(t, acme.Image, res.Records[2].Image)

	diag := res.Diagnostics
	assert.Equal(t, 3, diag.MediaFiles)
	assert.Equal(t, 3, diag.Anchors)
	assert.Equal(t, 2, diag.MappedRows)
	assert.Equal(t, 1, diag.DuplicateRowImages)
	assert.Equal(t, 3, diag.Records)
}

func TestExtract_FirstAnchorWins(t *testing.T) {
	path := createGalleryWorkbook(t)

	res, err := Extract(path, Options{Logger: DiscardLogger()})
	require.NoError(t, err)

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var diag = res.Diagnostics
	drawings := parser.ParseDrawings(&r.Reader, DiscardLogger(), &diag)
	require.NotEmpty(t, drawings)
	first := drawings[0].Anchors[0]
	require.Equal(t, 2, first.Row)

	media, err := parser.LoadMedia(&r.Reader, DiscardLogger(), &diag)
	require.NoError(t, err)
	assert.Equal(t, media[drawings[0].Rels[first.RelID]], res.Records[0].Image)
}

func writeArchive(t *testing.T, entries map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractBytes_AcmeExample(t *testing.T) {
	entries := map[string]string{
		"xl/sharedStrings.xml": `<sst><si><t>Name</t></si><si><t>Type</t></si><si><t>Acme</t></si><si><t>Tool</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData>
			<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
			<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2" t="s"><v>3</v></c></row>
			<row r="3"><c r="A3" t="inlineStr"><is><t>Beta</t></is></c></row>
		</sheetData></worksheet>`,
		"xl/drawings/drawing1.xml": `<xdr:wsDr xmlns:xdr="x" xmlns:a="a" xmlns:r="r"><xdr:twoCellAnchor>
			<xdr:from><xdr:col>4</xdr:col><xdr:row>1</xdr:row></xdr:from>
			<xdr:pic><xdr:blipFill><a:blip r:embed="rId1"/></xdr:blipFill></xdr:pic>
		</xdr:twoCellAnchor></xdr:wsDr>`,
		"xl/drawings/_rels/drawing1.xml.rels": `<Relationships><Relationship Id="rId1" Target="../media/image1.png"/></Relationships>`,
		"xl/media/image1.png":                 "png-bytes",
	}
	data := writeArchive(t, entries, []string{
		"xl/sharedStrings.xml",
		"xl/worksheets/sheet1.xml",
		"xl/drawings/drawing1.xml",
		"xl/drawings/_rels/drawing1.xml.rels",
		"xl/media/image1.png",
	})

	res, err := ExtractBytes(data, Options{Logger: DiscardLogger()})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, "Acme", res.Records[0].Name)
	assert.Equal(t, "Tool", res.Records[0].Type)
	assert.Equal(t, "data:image/png;base64,cG5nLWJ5dGVz", res.Records[0].Image)

	assert.Equal(t, "Beta", res.Records[1].Name)
	assert.Equal(t, "", res.Records[1].Image)
	assert.False(t, res.Diagnostics.Degraded())
}

func TestExtractBytes_DegradedParts(t *testing.T) {
	entries := map[string]string{
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row r="1"/><row r="4"><c r="A4" t="s"><v>0</v></c></row><row r="7"/></sheetData></worksheet>`,
		"xl/drawings/drawing1.xml": `<wsDr><oneCellAnchor><from><row>3</row></from><pic><blipFill><blip embed="rId2"/></blipFill></pic></oneCellAnchor>`,
		"xl/drawings/drawing2.xml": `<wsDr><oneCellAnchor><from><row>6</row></from><pic><blipFill><blip embed="rId1"/></blipFill></pic></oneCellAnchor></wsDr>`,
		"xl/drawings/_rels/drawing2.xml.rels": `<Relationships><Relationship Id="rId1" Target="../media/gone.png"/></Relationships>`,
	}
	data := writeArchive(t, entries, []string{
		"xl/worksheets/sheet1.xml",
		"xl/drawings/drawing1.xml",
		"xl/drawings/drawing2.xml",
		"xl/drawings/_rels/drawing2.xml.rels",
	})

	res, err := ExtractBytes(data, Options{Logger: DiscardLogger()})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "", res.Records[0].Name)
	assert.Equal(t, "", res.Records[1].Image)

	diag := res.Diagnostics
	assert.True(t, diag.SharedStringsMissing)
	assert.Equal(t, 1, diag.DrawingsFailed)
	assert.Equal(t, 1, diag.RelsMissing)
	assert.Equal(t, 1, diag.MissingMedia)
	assert.Equal(t, 0, diag.MappedRows)
	assert.True(t, diag.Degraded())
}

func TestExtract_FileNotFound(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultOptions())
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestExtract_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-workbook.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := Extract(path, Options{Logger: DiscardLogger()})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExtractBytes_MissingWorksheet(t *testing.T) {
	data := writeArchive(t, map[string]string{"xl/media/image1.png": "x"}, []string{"xl/media/image1.png"})

	_, err := ExtractBytes(data, Options{Logger: DiscardLogger()})
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "worksheet", extractionErr.Component)
	assert.ErrorIs(t, err, parser.ErrWorksheetMissing)
}
