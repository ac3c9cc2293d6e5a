package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfExtractor implements Extractor for PDF input using ledongthuc/pdf.
type pdfExtractor struct{}

// NewPDF returns an Extractor for PDF documents.
func NewPDF() Extractor {
	return &pdfExtractor{}
}

// Extract parses the PDF and returns per-page text concatenated in page order.
func (e *pdfExtractor) Extract(ctx context.Context, data []byte) (res *Result, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnreadableDocument)
	}
	if !isPDF(data) {
		return nil, fmt.Errorf("%w: missing %%PDF header", ErrUnreadableDocument)
	}

	// The parser panics on some malformed files instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: malformed pdf: %v", ErrUnreadableDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single broken page stream should not discard the rest.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := collapseWhitespace(sb.String())
	if text == "" {
		return nil, fmt.Errorf("%w: no extractable text", ErrUnreadableDocument)
	}
	return &Result{Text: text, Pages: total}, nil
}

// isPDF reports whether the bytes start with the "%PDF-" magic header.
func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
