package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFExtractRejectsUnreadableInput(t *testing.T) {
	e := NewPDF()
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "plain text masquerading as pdf upload", data: []byte("just some notes")},
		{name: "zip container", data: []byte("PK\x03\x04rest-of-zip")},
		{name: "pdf header with garbage body", data: []byte("%PDF-1.7\nnot a real xref table")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Extract(ctx, tt.data)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrUnreadableDocument)
		})
	}
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF([]byte("%PDF-1.4\n...")))
	assert.False(t, isPDF([]byte("PDF-1.4")))
	assert.False(t, isPDF([]byte("%PD")))
}

func TestCollapseWhitespace(t *testing.T) {
	in := "Chapter 1   \n\n\n\nSupply and demand.\r\n\n  "
	got := collapseWhitespace(in)
	assert.Equal(t, "Chapter 1\n\nSupply and demand.", got)
}
