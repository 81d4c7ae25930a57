// Package resume extracts plain text from candidate resume PDFs.
package resume

import (
	"errors"
	"fmt"
	"strings"

	"rsc.io/pdf"
)

// ErrNoText is returned when a PDF opens fine but yields no extractable text,
// which usually means a scanned image rather than a text-based document.
var ErrNoText = errors.New("no text could be extracted from the pdf")

// ExtractText reads every page of the PDF at path and returns its text.
func ExtractText(path string) (string, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for number := 1; number <= doc.NumPage(); number++ {
		page := doc.Page(number)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		parts := make([]string, 0, len(content.Text))
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			parts = append(parts, text.S)
		}

		if len(parts) > 0 {
			pages = append(pages, strings.Join(parts, " "))
		}
	}

	full := strings.TrimSpace(strings.Join(pages, "\n"))
	if full == "" {
		return "", ErrNoText
	}

	return full, nil
}
