package extractor

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Format is a document format the importer can read text from.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

var contentTypeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"application/vnd.openxmlformats-officedocument.wordprocessingml":          FormatDOCX,
	"application/docx":   FormatDOCX,
	"application/x-docx": FormatDOCX,
	"text/plain":         FormatTXT,
	"text/txt":           FormatTXT,
	"application/txt":    FormatTXT,
	"text/markdown":      FormatTXT,
	"text/csv":           FormatTXT,
	"text/html":          FormatHTML,
	"application/xhtml+xml": FormatHTML,
}

// DetectFormat picks the format from the file extension, falling back to
// the reported content type.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".md", ".csv":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if f, ok := contentTypeFormats[mediaType]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// Extract returns the plain text of a document.
func Extract(format Format, data []byte) (string, error) {
	switch format {
	case FormatPDF:
		return ExtractPDF(data)
	case FormatDOCX:
		return ExtractDOCX(data)
	case FormatTXT:
		return ExtractTXT(data)
	case FormatHTML:
		return ExtractHTML(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ContentType is the canonical MIME type stored alongside archived files.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
