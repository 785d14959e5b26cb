package extractor

import (
	"context"
	"strings"

	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

// Router dispatches by file extension to the format-specific extractors.
type Router struct {
	plain TextExtractor
	pdf   TextExtractor
}

func NewRouter() *Router {
	return &Router{plain: NewPlainText(), pdf: NewPDF()}
}

func (r *Router) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	switch {
	case hasSuffixFold(filename, ".txt"), hasSuffixFold(filename, ".md"):
		return r.plain.Extract(ctx, filename, data)
	case hasSuffixFold(filename, ".pdf"):
		return r.pdf.Extract(ctx, filename, data)
	default:
		return nil, apperrors.ErrUnsupportedDocument
	}
}

func hasSuffixFold(name, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(name), suffix)
}
