package extractor

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

var (
	pdfPageMarker = regexp.MustCompile(`/Type\s*/Page[^s]`)
	pdfTextShow   = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*T[jJ]`)
)

// PDF pulls text out of uncompressed PDF content streams by scanning for
// the Tj/TJ show-text operators. Compressed streams and scanned documents
// yield no text and surface as ErrNoExtractableText, which is the correct
// answer for image-only PDFs anyway.
type PDF struct{}

func NewPDF() *PDF {
	return &PDF{}
}

func (e *PDF) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, apperrors.ErrUnsupportedDocument.WithDetails("file is not a PDF document")
	}

	pages := len(pdfPageMarker.FindAll(data, -1))
	if pages == 0 {
		pages = 1
	}

	var sb strings.Builder
	for _, match := range pdfTextShow.FindAllSubmatch(data, -1) {
		sb.WriteString(unescapePDFString(string(match[1])))
		sb.WriteByte(' ')
	}

	text := strings.TrimSpace(sb.String())
	return &Result{
		Text:      text,
		PageCount: pages,
		WordCount: len(strings.Fields(text)),
	}, nil
}

func unescapePDFString(s string) string {
	r := strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")
	return r.Replace(s)
}
