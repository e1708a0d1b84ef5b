package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the closed set of supported input document formats.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat resolves the document format from the file suffix,
// case-insensitively. The suffix is inspected exactly once at the boundary;
// everything downstream dispatches on the returned Format.
func ParseFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
