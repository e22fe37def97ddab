// Package pdfutil reads text out of PDF documents with ledongthuc/pdf.
package pdfutil

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

// Info summarizes a PDF for display.
type Info struct {
	Pages int
	Text  string
}

// Inspect parses data and returns its page count and plain text.
func Inspect(data []byte) (Info, error) {
	doc, err := open(data)
	if err != nil {
		return Info{}, err
	}
	text, err := plainText(doc)
	if err != nil {
		return Info{}, err
	}
	return Info{Pages: doc.NumPage(), Text: text}, nil
}

// ExtractText reads PDF bytes and returns plain text, one line break per page.
func ExtractText(data []byte) (string, error) {
	doc, err := open(data)
	if err != nil {
		return "", err
	}
	return plainText(doc)
}

// Preview collapses whitespace in text and cuts it to at most limit runes.
func Preview(text string, limit int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(flat) <= limit {
		return flat
	}
	runes := []rune(flat)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func open(data []byte) (doc *pdf.Reader, err error) {
	// The parser panics on some malformed inputs instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("new pdf reader: %v", r)
		}
	}()
	doc, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("new pdf reader: %w", err)
	}
	return doc, nil
}

func plainText(doc *pdf.Reader) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extract pdf text: %v", r)
		}
	}()
	var builder strings.Builder
	total := doc.NumPage()
	for page := 1; page <= total; page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page, err)
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
