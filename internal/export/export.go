// Package export renders document content and metadata into portable byte
// formats. The rest of the system treats the output as opaque.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned for format values outside the enum.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents a supported export format.
type Format int

const (
	// PDF renders to a PDF document.
	PDF Format = iota
	// DOCX renders to an OOXML word-processing document.
	DOCX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "pdf"
	case DOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "pdf":
		return PDF, nil
	case "docx":
		return DOCX, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Exporter renders document content to the supported formats.
type Exporter struct{}

// NewExporter creates a new exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export renders content to the given format. Content may carry an optional
// top-level "text" string and/or a "chapters" list of {title, text} maps;
// metadata may carry optional "title", "author", and "date" strings. Both
// are passed through without further validation.
func (e *Exporter) Export(content map[string]any, format Format, metadata map[string]any) ([]byte, error) {
	switch format {
	case PDF:
		return e.ExportPDF(content, metadata), nil
	case DOCX:
		return e.ExportDOCX(content, metadata)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, int(format))
	}
}

// section is one rendered block: an optional heading and its paragraphs.
type section struct {
	Heading    string
	Paragraphs []string
}

// renderModel is the flattened form both renderers consume.
type renderModel struct {
	Title    string
	Author   string
	Date     string
	HasMeta  bool
	Sections []section
}

// buildModel extracts the loosely-typed content and metadata maps into a
// render model, applying the same fallbacks for missing fields in both
// output formats.
func buildModel(content, metadata map[string]any) renderModel {
	model := renderModel{}

	if metadata != nil {
		model.HasMeta = true
		model.Title = stringField(metadata, "title", "Untitled Document")
		model.Author = stringField(metadata, "author", "Unknown")
		model.Date = stringField(metadata, "date", time.Now().Format("2006-01-02"))
	}

	chapters := listField(content, "chapters")
	if len(chapters) > 0 {
		for _, raw := range chapters {
			chapter, ok := raw.(map[string]any)
			if !ok {
				continue
			}

			model.Sections = append(model.Sections, section{
				Heading:    stringField(chapter, "title", ""),
				Paragraphs: splitParagraphs(stringField(chapter, "text", "")),
			})
		}

		return model
	}

	model.Sections = append(model.Sections, section{
		Paragraphs: splitParagraphs(stringField(content, "text", "")),
	})

	return model
}

func stringField(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}

	if s, ok := m[key].(string); ok {
		return s
	}

	return fallback
}

func listField(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}

	if l, ok := m[key].([]any); ok {
		return l
	}

	return nil
}

// splitParagraphs splits text on blank lines, dropping empty chunks.
func splitParagraphs(text string) []string {
	var result []string

	for _, para := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(para) != "" {
			result = append(result, para)
		}
	}

	return result
}
