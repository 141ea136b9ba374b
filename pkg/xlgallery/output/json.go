// Package output serializes gallery records.
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// Indent is the indentation used for pretty-printed output.
const Indent = "  "

// ToJSON serializes records as a JSON array. HTML characters are left
// unescaped; pretty output ends with a newline.
func ToJSON(records []models.Record, pretty bool) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", Indent)
	}
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if !pretty {
		out = bytes.TrimSuffix(out, []byte("\n"))
	}
	return out, nil
}

// WriteFile serializes records to path, creating parent directories.
func WriteFile(path string, records []models.Record, pretty bool) error {
	data, err := ToJSON(records, pretty)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads records previously written by WriteFile.
func ReadFile(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
