package service

import (
	"testing"

	"opoboost_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsLatestAttemptWins(t *testing.T) {
	db := newTestDB(t)
	_, statsService, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, category.ID, "Tema 1", false, []uint{q1.ID, q2.ID})

	// First attempt passes, the retake fails: only the retake counts.
	_, err := attemptService.Submit(1, def.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 0},
		{QuestionID: q2.ID, Selected: 0},
	}, 0)
	require.NoError(t, err)
	_, err = attemptService.Submit(1, def.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 1},
		{QuestionID: q2.ID, Selected: 1},
	}, 0)
	require.NoError(t, err)

	stats, err := statsService.ComputeStats(1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalAttempts)
	assert.Equal(t, 0, stats.CorrectTotal)
	assert.Equal(t, 2, stats.IncorrectTotal)
	assert.Equal(t, 0, stats.ApprovedTests)
	assert.Equal(t, 1, stats.EligibleTests)
	assert.Equal(t, 0.0, stats.Progress)
}

func TestComputeStatsNoAttempts(t *testing.T) {
	db := newTestDB(t)
	_, statsService, _ := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	q1 := seedQuestion(t, db, 0, true)
	seedDefinition(t, db, category.ID, "Tema 1", false, []uint{q1.ID})

	stats, err := statsService.ComputeStats(1)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalAttempts)
	assert.Zero(t, stats.CorrectTotal)
	assert.Zero(t, stats.IncorrectTotal)
	assert.Zero(t, stats.SimulacroCount)
	assert.Zero(t, stats.ApprovedTests)
	assert.Equal(t, 0.0, stats.Progress)
	assert.Equal(t, 0.0, stats.AverageScore)
}

func TestComputeStatsProgress(t *testing.T) {
	db := newTestDB(t)
	_, statsService, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	q1 := seedQuestion(t, db, 0, true)
	def1 := seedDefinition(t, db, category.ID, "Tema 1", false, []uint{q1.ID})
	seedDefinition(t, db, category.ID, "Tema 2", false, []uint{q1.ID})

	// def1 approved with a 10, def2 never attempted.
	_, err := attemptService.Submit(1, def1.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 0},
	}, 0)
	require.NoError(t, err)

	stats, err := statsService.ComputeStats(1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ApprovedTests)
	assert.Equal(t, 2, stats.EligibleTests)
	assert.Equal(t, 50.0, stats.Progress)
	assert.Equal(t, 10.0, stats.AverageScore)
}

func TestComputeStatsExcludesSimulacros(t *testing.T) {
	db := newTestDB(t)
	testService, statsService, attemptService := newTestServices(t, db)

	seedQuestions(t, db, 5, true)

	// A generated simulacro lands in the reserved category and must not
	// count towards progress, only towards the simulacro counter.
	def, err := testService.CreateRandomTest(5)
	require.NoError(t, err)

	answers := make([]SubmittedAnswer, 0, len(def.Questions))
	for _, q := range def.Questions {
		answers = append(answers, SubmittedAnswer{QuestionID: q.ID, Selected: q.Correct})
	}

	// Two attempts at the same simulacro still count as one test taken.
	_, err = attemptService.Submit(1, def.ID, answers, 0)
	require.NoError(t, err)
	_, err = attemptService.Submit(1, def.ID, answers, 0)
	require.NoError(t, err)

	stats, err := statsService.ComputeStats(1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalAttempts)
	assert.Equal(t, 1, stats.SimulacroCount)
	assert.Equal(t, 5, stats.CorrectTotal)
	assert.Equal(t, 0, stats.ApprovedTests)
	assert.Equal(t, 0, stats.EligibleTests)
	assert.Equal(t, 0.0, stats.Progress)
}

func TestComputeStatsDropsOrphanAttempts(t *testing.T) {
	db := newTestDB(t)
	_, statsService, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	q1 := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, category.ID, "Tema 1", false, []uint{q1.ID})

	_, err := attemptService.Submit(1, def.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 0},
	}, 0)
	require.NoError(t, err)

	// Remove the definition row directly, leaving the attempt dangling the
	// way old data can.
	require.NoError(t, db.Delete(&model.TestDefinition{}, def.ID).Error)

	stats, err := statsService.ComputeStats(1)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalAttempts)
	assert.Equal(t, 0, stats.ApprovedTests)
}

func TestCategoryStats(t *testing.T) {
	db := newTestDB(t)
	_, statsService, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 0, true)
	passed := seedDefinition(t, db, category.ID, "Aprobado", false, []uint{q1.ID})
	untouched := seedDefinition(t, db, category.ID, "Pendiente", false, []uint{q2.ID})

	// Fail once, then pass: the highest score is the one reported.
	_, err := attemptService.Submit(1, passed.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 1},
	}, 0)
	require.NoError(t, err)
	_, err = attemptService.Submit(1, passed.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 0},
	}, 0)
	require.NoError(t, err)

	summary, err := statsService.CategoryStats(1, category.ID)
	require.NoError(t, err)
	require.Len(t, summary.Tests, 2)

	byID := map[uint]CategoryTestStat{}
	for _, s := range summary.Tests {
		byID[s.TestDefinition.ID] = s
	}

	assert.Equal(t, 10.0, byID[passed.ID].HighestScore)
	assert.True(t, byID[passed.ID].Approved)
	assert.Equal(t, 2, byID[passed.ID].Attempts)

	assert.Zero(t, byID[untouched.ID].HighestScore)
	assert.False(t, byID[untouched.ID].Approved)
	assert.Zero(t, byID[untouched.ID].Attempts)

	// One of two definitions passed.
	assert.Equal(t, 50.0, summary.Progress)
}
