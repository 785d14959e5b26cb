package generator

import (
	"context"
	"testing"

	"github.com/izzat2702/KognitDeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministic_GenerateQA(t *testing.T) {
	g := NewDeterministic()
	cards, err := g.Generate(context.Background(), Request{
		Topic:  "photosynthesis",
		Format: models.FormatQA,
		Count:  7,
	})
	require.NoError(t, err)
	require.Len(t, cards, 7)
	for _, card := range cards {
		assert.NotEmpty(t, card.Front)
		assert.NotEmpty(t, card.Back)
		assert.Empty(t, card.Options)
		assert.Empty(t, card.CorrectAnswer)
		assert.Contains(t, card.Front, "photosynthesis")
	}
}

func TestDeterministic_GenerateMCQ(t *testing.T) {
	g := NewDeterministic()
	cards, err := g.Generate(context.Background(), Request{
		SourceText: "The Krebs cycle is a series of chemical reactions",
		Format:     models.FormatMCQ,
		Count:      3,
	})
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, card := range cards {
		require.Len(t, card.Options, 4)
		assert.Contains(t, card.Options, card.CorrectAnswer)
	}
}

func TestDeterministic_RejectsNonPositiveCount(t *testing.T) {
	g := NewDeterministic()
	_, err := g.Generate(context.Background(), Request{Topic: "x", Format: models.FormatQA, Count: 0})
	assert.Error(t, err)
}

func TestDeterministic_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewDeterministic()
	_, err := g.Generate(ctx, Request{Topic: "x", Format: models.FormatQA, Count: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
