package parser

import (
	"archive/zip"
	"encoding/xml"
	"log/slog"
	"strings"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// xlsxSST maps the sst element. Namespaces are matched on local names only, so
// prefixed and unprefixed documents decode alike.
type xlsxSST struct {
	XMLName xml.Name `xml:"sst"`
	SI      []xlsxSI `xml:"si"`
}

// xlsxSI is a shared string item, or the inline string of a cell. Either T is
// set, or the text is split across rich text runs.
type xlsxSI struct {
	T *xlsxT  `xml:"t"`
	R []xlsxR `xml:"r"`
}

// xlsxR is a rich text run. Run properties are not decoded.
type xlsxR struct {
	T *xlsxT `xml:"t"`
}

type xlsxT struct {
	Value string `xml:",chardata"`
}

// String resolves the item to plain text. A run without a direct t element
// contributes an empty fragment.
func (si *xlsxSI) String() string {
	if si == nil {
		return ""
	}
	if si.T != nil {
		return si.T.Value
	}
	var b strings.Builder
	for _, r := range si.R {
		if r.T != nil {
			b.WriteString(r.T.Value)
		}
	}
	return b.String()
}

// ParseSharedStrings loads the shared string table. A missing or malformed
// part yields an empty table.
func ParseSharedStrings(r *zip.Reader, log *slog.Logger, diag *models.Diagnostics) models.SharedStringTable {
	data, err := readZipFile(r, SharedStringsPath)
	if err != nil {
		log.Warn("could not read shared strings", "part", SharedStringsPath, "error", err)
		diag.SharedStringsFailed = true
		return models.SharedStringTable{}
	}
	if data == nil {
		log.Debug("workbook has no shared strings", "part", SharedStringsPath)
		diag.SharedStringsMissing = true
		return models.SharedStringTable{}
	}

	table, err := parseSharedStringsXML(data)
	if err != nil {
		log.Warn("could not parse shared strings", "part", SharedStringsPath, "error", err)
		diag.SharedStringsFailed = true
		return models.SharedStringTable{}
	}
	diag.SharedStrings = len(table)
	return table
}

func parseSharedStringsXML(data []byte) (models.SharedStringTable, error) {
	var sst xlsxSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, err
	}
	table := make(models.SharedStringTable, len(sst.SI))
	for i := range sst.SI {
		table[i] = sst.SI[i].String()
	}
	return table, nil
}
