package export

import (
	"bytes"
	"fmt"
	"strings"
)

// Page geometry for US letter with one-inch margins.
const (
	pdfPageWidth  = 612
	pdfPageHeight = 792
	pdfMargin     = 72
)

// pdfLine is one line of text in the content stream.
type pdfLine struct {
	text    string
	font    string // F1 regular, F2 bold
	size    int
	spacing int // extra vertical space after the line
}

// ExportPDF renders content and metadata to a single-page PDF.
func (e *Exporter) ExportPDF(content, metadata map[string]any) []byte {
	model := buildModel(content, metadata)

	var lines []pdfLine

	if model.HasMeta {
		lines = append(lines,
			pdfLine{text: model.Title, font: "F2", size: 24, spacing: 12},
			pdfLine{text: "by " + model.Author, font: "F1", size: 12},
			pdfLine{text: model.Date, font: "F1", size: 12, spacing: 24},
		)
	}

	for _, sec := range model.Sections {
		if sec.Heading != "" {
			lines = append(lines, pdfLine{text: sec.Heading, font: "F2", size: 16, spacing: 8})
		}

		for _, para := range sec.Paragraphs {
			for line := range strings.Lines(para) {
				lines = append(lines, pdfLine{text: strings.TrimRight(line, "\n"), font: "F1", size: 12})
			}

			lines = append(lines, pdfLine{size: 6})
		}
	}

	return writePDF(lines)
}

// writePDF assembles a minimal PDF: catalog, page tree, one page with two
// Helvetica fonts, a text content stream, and the xref table.
func writePDF(lines []pdfLine) []byte {
	stream := buildContentStream(lines)

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] "+
			"/Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R >>",
			pdfPageWidth, pdfPageHeight),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var buf bytes.Buffer

	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()

	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")

	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefStart)

	return buf.Bytes()
}

func buildContentStream(lines []pdfLine) string {
	var sb strings.Builder

	sb.WriteString("BT\n")
	fmt.Fprintf(&sb, "%d %d Td\n", pdfMargin, pdfPageHeight-pdfMargin)

	for _, line := range lines {
		leading := line.size + 4 + line.spacing

		if line.text != "" {
			fmt.Fprintf(&sb, "/%s %d Tf\n(%s) Tj\n", line.font, line.size, escapePDFText(line.text))
		}

		fmt.Fprintf(&sb, "0 -%d Td\n", leading)
	}

	sb.WriteString("ET")

	return sb.String()
}

// escapePDFText escapes the characters with meaning inside a PDF string.
func escapePDFText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

	return r.Replace(s)
}
