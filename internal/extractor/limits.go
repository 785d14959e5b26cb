package extractor

import (
	"context"
	"errors"
	"strings"

	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

// Limits bound what the extraction pipeline will accept. Zero values mean
// no limit for that dimension.
type Limits struct {
	MaxBytes int64
	MaxPages int
	MaxWords int
}

// Limited wraps an extractor with size and content limits. Byte size is
// checked before delegating; page and word counts after, since only the
// inner extractor knows them.
type Limited struct {
	inner  TextExtractor
	limits Limits
}

func NewLimited(inner TextExtractor, limits Limits) *Limited {
	return &Limited{inner: inner, limits: limits}
}

func (l *Limited) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	if l.limits.MaxBytes > 0 && int64(len(data)) > l.limits.MaxBytes {
		return nil, apperrors.ErrDocumentTooLarge
	}

	res, err := l.inner.Extract(ctx, filename, data)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.ErrExtractionTimeout.WithError(err)
		}
		return nil, err
	}

	if l.limits.MaxPages > 0 && res.PageCount > l.limits.MaxPages {
		return nil, apperrors.ErrDocumentTooLarge.WithDetails("document exceeds the page limit")
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, apperrors.ErrNoExtractableText
	}
	if l.limits.MaxWords > 0 && res.WordCount > l.limits.MaxWords {
		res.Text = truncateWords(res.Text, l.limits.MaxWords)
		res.WordCount = l.limits.MaxWords
	}
	return res, nil
}

func truncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ")
}
