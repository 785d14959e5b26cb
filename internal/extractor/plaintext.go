package extractor

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

// assumed page density when the source format has no page structure
const wordsPerPage = 500

// PlainText handles .txt and .md uploads.
type PlainText struct{}

func NewPlainText() *PlainText {
	return &PlainText{}
}

func (e *PlainText) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !utf8.Valid(data) {
		return nil, apperrors.ErrUnsupportedDocument.WithDetails("document is not valid UTF-8 text")
	}

	text := strings.TrimSpace(string(data))
	words := len(strings.Fields(text))
	pages := words/wordsPerPage + 1

	return &Result{Text: text, PageCount: pages, WordCount: words}, nil
}
