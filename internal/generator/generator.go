// Package generator defines the card generation collaborator. Generation is
// an external concern behind an interface; the deterministic implementation
// in this package produces subject-flavored cards without any network calls.
package generator

import (
	"context"

	"github.com/izzat2702/KognitDeck/internal/models"
)

// GeneratedCard is one card as produced by a generator, before persistence.
type GeneratedCard struct {
	Front         string
	Back          string
	Options       []string
	CorrectAnswer string
}

// Request describes one generation call. Exactly one of SourceText or Topic
// is set, matching the input method.
type Request struct {
	SourceText string
	Topic      string
	Format     models.CardFormat
	Count      int
}

// CardGenerator produces up to Count cards for the request. Implementations
// may return fewer cards than requested; callers must meter usage by the
// actual length of the returned slice.
type CardGenerator interface {
	Generate(ctx context.Context, req Request) ([]GeneratedCard, error)
}
