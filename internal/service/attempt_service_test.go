package service

import (
	"testing"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name      string
		correct   int
		incorrect int
		total     int
		want      float64
	}{
		{"perfect", 10, 0, 10, 10},
		{"all wrong", 0, 10, 10, 0},
		{"all blank", 0, 0, 10, 0},
		{"empty test", 0, 0, 0, 0},
		{"two right one wrong of four", 2, 1, 4, 4.38},
		{"penalty floors at zero", 1, 8, 10, 0},
		{"half right", 5, 0, 10, 5},
		{"rounding", 1, 0, 3, 3.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeScore(tt.correct, tt.incorrect, tt.total))
		})
	}
}

func TestSubmitGradesServerSide(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Constitución")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 1, true)
	q3 := seedQuestion(t, db, 2, true)
	q4 := seedQuestion(t, db, 3, true)
	def := seedDefinition(t, db, category.ID, "Tema 1", false, []uint{q1.ID, q2.ID, q3.ID, q4.ID})

	answers := []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 0}, // correct
		{QuestionID: q2.ID, Selected: 1}, // correct
		{QuestionID: q3.ID, Selected: 0}, // incorrect
		// q4 unanswered: blank
	}

	attempt, err := attemptService.Submit(1, def.ID, answers, 25)
	require.NoError(t, err)

	assert.Equal(t, 2, attempt.Correct)
	assert.Equal(t, 1, attempt.Incorrect)
	assert.Equal(t, 1, attempt.Blank)
	assert.Equal(t, 4.38, attempt.Score)
	assert.Equal(t, 25, attempt.DurationMinutes)
	assert.Len(t, attempt.Answers, 3)

	// The blank question must not have a stored answer row.
	var rows int64
	db.Model(&model.AttemptAnswer{}).Where("question_id = ?", q4.ID).Count(&rows)
	assert.Zero(t, rows)
}

func TestSubmitRemapsShuffledOptions(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Tráfico")
	question := seedQuestion(t, db, 2, true)
	def := seedDefinition(t, db, category.ID, "Tema 2", false, []uint{question.ID})

	// The client showed canonical option 2 at position 0 and the user
	// picked position 0, so the answer is correct.
	answers := []SubmittedAnswer{
		{QuestionID: question.ID, Selected: 0, OptionOrder: []int{2, 0, 1, 3}},
	}

	attempt, err := attemptService.Submit(1, def.ID, answers, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, attempt.Correct)
	require.Len(t, attempt.Answers, 1)
	assert.Equal(t, 2, attempt.Answers[0].Selected)
	assert.True(t, attempt.Answers[0].IsCorrect)
}

func TestSubmitEdgeCases(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Penal")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, category.ID, "Tema 3", false, []uint{q1.ID, q2.ID})

	answers := []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 9},  // out of range: incorrect
		{QuestionID: q2.ID, Selected: -1}, // explicit blank
		{QuestionID: 99999, Selected: 0},  // unknown question: ignored
	}

	attempt, err := attemptService.Submit(1, def.ID, answers, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, attempt.Correct)
	assert.Equal(t, 1, attempt.Incorrect)
	assert.Equal(t, 1, attempt.Blank)
	assert.Len(t, attempt.Answers, 1)
}

func TestSubmitUnknownDefinition(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)

	_, err := attemptService.Submit(1, 12345, nil, 0)
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestGetAttemptOwnership(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Civil")
	question := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, category.ID, "Tema 4", false, []uint{question.ID})

	attempt, err := attemptService.Submit(7, def.ID, []SubmittedAnswer{{QuestionID: question.ID, Selected: 0}}, 0)
	require.NoError(t, err)

	_, err = attemptService.Get(attempt.ID, 7, model.Student)
	assert.NoError(t, err)

	_, err = attemptService.Get(attempt.ID, 8, model.Student)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = attemptService.Get(attempt.ID, 8, model.Admin)
	assert.NoError(t, err)
}

func TestHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Mercantil")
	question := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, category.ID, "Tema 5", false, []uint{question.ID})

	first, err := attemptService.Submit(3, def.ID, nil, 0)
	require.NoError(t, err)
	second, err := attemptService.Submit(3, def.ID, []SubmittedAnswer{{QuestionID: question.ID, Selected: 0}}, 0)
	require.NoError(t, err)

	history, err := attemptService.History(3, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	limited, err := attemptService.History(3, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	// History must not leak other users' attempts.
	repo := repository.NewAttemptRepository(db)
	other, err := repo.ListByUser(99, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}
