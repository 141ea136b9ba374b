package models

import (
	"strings"
	"testing"
)

func TestDiagnosticsDegraded(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostics
		want bool
	}{
		{"clean", Diagnostics{Records: 3, MediaFiles: 2, MappedRows: 2}, false},
		{"missing optional parts", Diagnostics{SharedStringsMissing: true, RelsMissing: 1}, false},
		{"malformed shared strings", Diagnostics{SharedStringsFailed: true}, true},
		{"duplicate image", Diagnostics{DuplicateRowImages: 1}, true},
		{"missing media", Diagnostics{MissingMedia: 2}, true},
		{"row without number", Diagnostics{RowsWithoutNumber: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.diag.Degraded(); got != tt.want {
				t.Errorf("Degraded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiagnosticsString(t *testing.T) {
	s := Diagnostics{Records: 4, MappedRows: 2, DuplicateRowImages: 1}.String()
	for _, want := range []string{"records=4", "mapped_rows=2", "duplicates=1"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestRecordHasImage(t *testing.T) {
	if (Record{}).HasImage() {
		t.Error("empty record should have no image")
	}
	if !(Record{Image: "data:image/png;base64,AAA"}).HasImage() {
		t.Error("record with data URL should have an image")
	}
}
