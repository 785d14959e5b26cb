// Package extractor defines the document text extraction collaborator and
// the limit enforcement every implementation shares.
package extractor

import (
	"context"
)

// Result is the text pulled out of an uploaded document.
type Result struct {
	Text      string
	PageCount int
	WordCount int
}

// TextExtractor turns an uploaded document into plain text. Implementations
// report unsupported formats, empty documents and timeouts through the
// package error values so handlers can map them to status codes.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (*Result, error)
}
