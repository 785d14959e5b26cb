package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

// Deterministic builds cards from template banks keyed off the subject or
// the first words of the source text. It stands in for an AI backend in
// development and tests and always yields exactly Count cards.
type Deterministic struct{}

func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

var qaTemplates = []struct{ front, back string }{
	{"What is the core concept of %s?", "The central idea underlying %s, covering its definition and scope."},
	{"Why is %s important?", "%s matters because it connects foundational principles to practical application."},
	{"How would you explain %s to a beginner?", "Start from first principles: %s builds on simpler ideas introduced earlier."},
	{"What is a common misconception about %s?", "A frequent mistake is oversimplifying %s; the details carry the meaning."},
	{"Give an example involving %s.", "A concrete case of %s applied in a realistic scenario."},
}

var mcqDistractors = []string{
	"An unrelated historical event",
	"A superficially similar but distinct concept",
	"The inverse of the correct definition",
}

// Generate derives a subject label from the request and fills Count cards
// by cycling through the template bank.
func (g *Deterministic) Generate(ctx context.Context, req Request) ([]GeneratedCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Count <= 0 {
		return nil, apperrors.NewBadRequestError("card count must be positive")
	}

	subject := deriveSubject(req)
	cards := make([]GeneratedCard, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		tpl := qaTemplates[i%len(qaTemplates)]
		card := GeneratedCard{
			Front: fmt.Sprintf(tpl.front, subject),
			Back:  fmt.Sprintf(tpl.back, subject),
		}
		if req.Format == models.FormatMCQ {
			card.CorrectAnswer = card.Back
			card.Options = append([]string{card.Back}, mcqDistractors...)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func deriveSubject(req Request) string {
	if req.Topic != "" {
		return strings.TrimSpace(req.Topic)
	}
	words := strings.Fields(req.SourceText)
	if len(words) > 6 {
		words = words[:6]
	}
	if len(words) == 0 {
		return "the provided material"
	}
	return strings.Join(words, " ")
}
