package service

import (
	"testing"

	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestPool(db *gorm.DB) *PoolService {
	return NewPoolService(
		repository.NewQuestionRepository(db),
		repository.NewTestDefinitionRepository(db),
		repository.NewAttemptRepository(db),
	)
}

func TestSelectRandomSamplesOnlyValidated(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(db)

	seedQuestions(t, db, 5, true)
	seedQuestions(t, db, 3, false)

	questions, err := pool.SelectRandom(5)
	require.NoError(t, err)
	assert.Len(t, questions, 5)
	for _, q := range questions {
		assert.True(t, q.Validated)
	}
}

func TestSelectRandomInsufficientPool(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(db)

	seedQuestions(t, db, 3, true)

	_, err := pool.SelectRandom(10)
	var insufficient *util.InsufficientPoolError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Requested)
	assert.Equal(t, 3, insufficient.Found)
}

func TestSelectFailedCollectsWrongAnswers(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)
	pool := newTestPool(db)

	category := seedCategory(t, db, "Administrativo")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 0, true)
	q3 := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, category.ID, "Tema 6", false, []uint{q1.ID, q2.ID, q3.ID})

	// q1 right, q2 wrong, q3 blank.
	_, err := attemptService.Submit(1, def.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 0},
		{QuestionID: q2.ID, Selected: 1},
	}, 0)
	require.NoError(t, err)

	// A second attempt fails q2 again: the pool must stay deduplicated.
	_, err = attemptService.Submit(1, def.ID, []SubmittedAnswer{
		{QuestionID: q2.ID, Selected: 2},
	}, 0)
	require.NoError(t, err)

	questions, err := pool.SelectFailed(1, 0)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, q2.ID, questions[0].ID)
}

func TestSelectFailedWithoutFailures(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(db)

	_, err := pool.SelectFailed(1, 0)
	assert.ErrorIs(t, err, util.ErrNoFailedQuestions)
}

func TestSelectCustomUnionsAndExcludesTemporary(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(db)

	category := seedCategory(t, db, "Laboral")
	shared := seedQuestion(t, db, 0, true)
	only1 := seedQuestion(t, db, 0, true)
	only2 := seedQuestion(t, db, 0, true)
	tempQ := seedQuestion(t, db, 0, true)

	def1 := seedDefinition(t, db, category.ID, "Tema A", false, []uint{shared.ID, only1.ID})
	def2 := seedDefinition(t, db, category.ID, "Tema B", false, []uint{shared.ID, only2.ID})
	temp := seedDefinition(t, db, category.ID, "Simulacro viejo", true, []uint{tempQ.ID})

	questions, err := pool.SelectCustom([]uint{def1.ID, def2.ID, temp.ID}, 3)
	require.NoError(t, err)
	assert.Len(t, questions, 3)

	ids := map[uint]bool{}
	for _, q := range questions {
		ids[q.ID] = true
	}
	// The union deduplicates the shared question and skips the temporary
	// definition entirely.
	assert.True(t, ids[shared.ID])
	assert.True(t, ids[only1.ID])
	assert.True(t, ids[only2.ID])
	assert.False(t, ids[tempQ.ID])
}

func TestSelectCustomErrors(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(db)

	_, err := pool.SelectCustom(nil, 5)
	assert.ErrorIs(t, err, util.ErrEmptySelection)

	category := seedCategory(t, db, "Fiscal")
	question := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, category.ID, "Tema C", false, []uint{question.ID})

	_, err = pool.SelectCustom([]uint{def.ID}, 5)
	var exceeds *util.LimitExceedsPoolError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 5, exceeds.Limit)
	assert.Equal(t, 1, exceeds.Available)
}

func TestSelectRealExamScopedToCategories(t *testing.T) {
	db := newTestDB(t)
	pool := newTestPool(db)

	visible := seedCategory(t, db, "Visible")
	hidden := seedCategory(t, db, "Oculta")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 0, true)
	seedDefinition(t, db, visible.ID, "Tema V", false, []uint{q1.ID})
	seedDefinition(t, db, hidden.ID, "Tema O", false, []uint{q2.ID})

	questions, err := pool.SelectRealExam([]uint{visible.ID}, 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, q1.ID, questions[0].ID)

	_, err = pool.SelectRealExam([]uint{visible.ID}, 2)
	var exceeds *util.LimitExceedsPoolError
	assert.ErrorAs(t, err, &exceeds)
}
