package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

// ExportDOCX renders content and metadata to an OOXML word-processing
// document: a zip holding the content-type map, package relationships,
// core properties, and the document body.
func (e *Exporter) ExportDOCX(content, metadata map[string]any) ([]byte, error) {
	model := buildModel(content, metadata)

	var buf bytes.Buffer

	w := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"docProps/core.xml", buildCoreProps(model)},
		{"word/document.xml", buildDocumentXML(model)},
	}

	for _, part := range parts {
		f, err := w.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", part.name, err)
		}

		if _, err := f.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", part.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return buf.Bytes(), nil
}

func buildCoreProps(model renderModel) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)

	if model.HasMeta {
		fmt.Fprintf(&sb, "<dc:title>%s</dc:title>", escapeXML(model.Title))
		fmt.Fprintf(&sb, "<dc:creator>%s</dc:creator>", escapeXML(model.Author))
	}

	fmt.Fprintf(&sb, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`,
		time.Now().UTC().Format(time.RFC3339))
	sb.WriteString("</cp:coreProperties>")

	return sb.String()
}

func buildDocumentXML(model renderModel) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	if model.HasMeta {
		writeParagraph(&sb, model.Title, paragraphProps{bold: true, halfPoints: 48, centered: true})
		writeParagraph(&sb, "by "+model.Author, paragraphProps{centered: true})
		writeParagraph(&sb, model.Date, paragraphProps{centered: true})
		writeParagraph(&sb, "", paragraphProps{})
	}

	for _, sec := range model.Sections {
		if sec.Heading != "" {
			writeParagraph(&sb, sec.Heading, paragraphProps{bold: true, halfPoints: 32})
		}

		for _, para := range sec.Paragraphs {
			writeParagraph(&sb, para, paragraphProps{})
		}

		writeParagraph(&sb, "", paragraphProps{})
	}

	sb.WriteString(`</w:body></w:document>`)

	return sb.String()
}

type paragraphProps struct {
	bold       bool
	halfPoints int // font size in half-points, 0 for default
	centered   bool
}

func writeParagraph(sb *strings.Builder, text string, props paragraphProps) {
	sb.WriteString("<w:p>")

	if props.centered {
		sb.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	}

	if text != "" {
		sb.WriteString("<w:r>")

		if props.bold || props.halfPoints > 0 {
			sb.WriteString("<w:rPr>")

			if props.bold {
				sb.WriteString("<w:b/>")
			}

			if props.halfPoints > 0 {
				fmt.Fprintf(sb, `<w:sz w:val="%d"/>`, props.halfPoints)
			}

			sb.WriteString("</w:rPr>")
		}

		fmt.Fprintf(sb, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(text))
		sb.WriteString("</w:r>")
	}

	sb.WriteString("</w:p>")
}

func escapeXML(s string) string {
	var buf bytes.Buffer

	_ = xml.EscapeText(&buf, []byte(s))

	return buf.String()
}
