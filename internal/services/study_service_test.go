package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
)

func newStudyFixture(t *testing.T) (StudyService, repositories.SetRepository, *models.User, *models.FlashcardSet) {
	t.Helper()
	db := newTestDB(t)
	users := repositories.NewUserRepository(db)
	sets := repositories.NewSetRepository(db)
	sessions := repositories.NewStudyRepository(db)

	user := &models.User{
		Name: "Student", Email: "student@example.com", PasswordHash: "x",
		Plan: models.PlanFree, CardsResetDate: time.Now(),
	}
	require.NoError(t, users.Create(context.Background(), user))

	set := &models.FlashcardSet{
		UserID: user.ID, Name: "Physics",
		InputMethod: models.InputText, Format: models.FormatQA,
		Cards: []models.Card{{Front: "Q", Back: "A", Format: models.FormatQA}},
	}
	require.NoError(t, sets.CreateWithCards(context.Background(), set))

	return NewStudyService(sessions, sets), sets, user, set
}

func TestStudy_RecordAndList(t *testing.T) {
	svc, _, user, set := newStudyFixture(t)

	resp, err := svc.Record(context.Background(), user.ID, dto.CreateStudySessionRequest{
		SetID: set.ID, TotalCards: 10, CorrectCards: 7, EasyCards: 4, HardCards: 2, Duration: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, 70, resp.Accuracy)
	assert.Equal(t, "Physics", resp.SetName)

	list, err := svc.List(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	bySet, err := svc.ListBySet(context.Background(), user.ID, set.ID)
	require.NoError(t, err)
	assert.Len(t, bySet, 1)
}

func TestStudy_RejectsInconsistentCounts(t *testing.T) {
	svc, _, user, set := newStudyFixture(t)

	_, err := svc.Record(context.Background(), user.ID, dto.CreateStudySessionRequest{
		SetID: set.ID, TotalCards: 5, CorrectCards: 6,
	})
	assert.Error(t, err)

	_, err = svc.Record(context.Background(), user.ID, dto.CreateStudySessionRequest{
		SetID: set.ID, TotalCards: 5, CorrectCards: 3, EasyCards: 4, HardCards: 2,
	})
	assert.Error(t, err)
}

func TestStudy_RejectsForeignSet(t *testing.T) {
	svc, _, _, set := newStudyFixture(t)

	_, err := svc.Record(context.Background(), "someone-else", dto.CreateStudySessionRequest{
		SetID: set.ID, TotalCards: 5, CorrectCards: 3,
	})
	assert.Error(t, err, "another user's set behaves like a missing one")
}
