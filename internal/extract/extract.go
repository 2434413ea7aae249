// Package extract turns uploaded documents into plain text for prompt
// construction.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"eduverse/internal/domain"

	"github.com/ledongthuc/pdf"
)

// MIME types accepted by the analyze-file endpoint.
const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Text routes the uploaded bytes to the extraction strategy for the declared
// MIME type. Unsupported types are rejected before any work is done, and
// extractions that produce only whitespace are rejected as empty content so
// a blank document never reaches prompt construction.
func Text(mimeType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch mimeType {
	case MimePDF:
		text, err = pdfText(data)
		if err != nil {
			return "", domain.NewPdfProcessingError(err)
		}
	case MimeText:
		text = string(data)
	case MimeDoc, MimeDocx:
		text, err = wordText(data)
		if err != nil {
			return "", domain.NewError(domain.ErrInvalidInput, "Failed to process document", err)
		}
	default:
		return "", domain.NewUnsupportedFileTypeError(mimeType)
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.NewEmptyContentError()
	}
	return text, nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// wordText reads an OpenXML word document: the zip entry word/document.xml
// holds the body, text runs live in <w:t> elements. Paragraph boundaries
// (<w:p>) become newlines.
func wordText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a valid word document container: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var out strings.Builder
	decoder := xml.NewDecoder(rc)
	inTextRun := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				out.Write(t)
			}
		}
	}

	return out.String(), nil
}
