package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"report.pdf", FormatPDF},
		{"report.PDF", FormatPDF},
		{"/data/экспертиза.Pdf", FormatPDF},
		{"report.docx", FormatDOCX},
		{"report.DOCX", FormatDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParseFormat(tt.path)
			if err != nil {
				t.Fatalf("ParseFormat(%q) error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseFormat_Unsupported(t *testing.T) {
	for _, path := range []string{"notes.txt", "report.doc", "archive", "scan.png"} {
		t.Run(path, func(t *testing.T) {
			_, err := ParseFormat(path)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("ParseFormat(%q) = %v, want ErrUnsupportedFormat", path, err)
			}
		})
	}
}

func TestParseFormat_ErrorNamesSuffix(t *testing.T) {
	_, err := ParseFormat("notes.txt")
	if err == nil || !strings.Contains(err.Error(), ".txt") {
		t.Errorf("error %v does not name the offending suffix", err)
	}
}
