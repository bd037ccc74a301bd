// Package extract converts uploaded document payloads into plain text for
// chunking.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Supported content types.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
)

var (
	// ErrUnsupportedFormat is returned for content types the extractor does
	// not recognize; the upload is rejected outright.
	ErrUnsupportedFormat = errors.New("unsupported content type")
	// ErrExtractionFailed is returned when a binary document cannot be
	// parsed. There is no partial result: one corrupt container fails the
	// whole document.
	ErrExtractionFailed = errors.New("document extraction failed")
)

// Text converts content into a single plain-text string based on its declared
// content type. Plain text is decoded lossily (undecodable byte sequences are
// dropped). PDF pages are extracted one by one and joined with a blank line.
func Text(content []byte, contentType string) (string, error) {
	switch contentType {
	case ContentTypeText:
		return strings.ToValidUTF8(string(content), ""), nil
	case ContentTypePDF:
		return pdfText(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}
}

func pdfText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtractionFailed, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), nil
}
