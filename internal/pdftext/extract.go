// Package pdftext turns resume and job description files into plain text.
package pdftext

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned for PDFs without an extractable text layer, such as
// scanned documents.
var ErrNoText = errors.New("no text content found in PDF")

// Document is the extracted text of one PDF.
type Document struct {
	Text      string
	PageCount int
}

// ExtractFile reads every page of the PDF at path and returns the cleaned
// text. Pages that fail to decode are skipped.
func ExtractFile(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	pages := r.NumPage()

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		b.WriteString(text)
		b.WriteString("\n\n")
	}

	text := Clean(b.String())
	if text == "" {
		return nil, ErrNoText
	}

	return &Document{Text: text, PageCount: pages}, nil
}

// ReadFile returns the text of a .pdf file via ExtractFile and of any other
// file as is.
func ReadFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		doc, err := ExtractFile(path)
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		return doc.Text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
