package extract

import (
	"context"
	"errors"
)

// ErrUnreadableDocument is returned when the uploaded bytes are not a
// parseable document (corrupted, password-protected, or not a PDF at all).
var ErrUnreadableDocument = errors.New("document is not readable")

// Result holds the linearized text of an uploaded document.
// Text is the concatenation of per-page text in page order; intra-page
// layout (columns, tables) is not preserved.
type Result struct {
	Text  string
	Pages int
}

// Extractor converts uploaded document bytes into plain text.
// Implementations are pure transformations with no side effects.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Result, error)
}
