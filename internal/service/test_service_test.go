package service

import (
	"fmt"
	"testing"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRandomTestLandsInReservedCategory(t *testing.T) {
	db := newTestDB(t)
	testService, _, _ := newTestServices(t, db)

	seedQuestions(t, db, 6, true)

	def, err := testService.CreateRandomTest(5)
	require.NoError(t, err)

	assert.Equal(t, "Simulacro Aleatorio (5 preguntas)", def.Title)
	assert.False(t, def.IsTemporary)
	assert.Nil(t, def.OwnerID)
	require.NotNil(t, def.Category)
	assert.Equal(t, "Simulacros Generales", def.Category.Name)
	assert.Len(t, def.Questions, 5)

	// The join rows preserve assembly order.
	repo := repository.NewTestDefinitionRepository(db)
	ids, err := repo.QuestionIDs(def.ID)
	require.NoError(t, err)
	require.Len(t, ids, 5)
	for i, q := range def.Questions {
		assert.Equal(t, q.ID, ids[i])
	}
}

func TestCreateRandomTestDefaultLimit(t *testing.T) {
	db := newTestDB(t)
	testService, _, _ := newTestServices(t, db)

	seedQuestions(t, db, 12, true)

	def, err := testService.CreateRandomTest(0)
	require.NoError(t, err)
	assert.Len(t, def.Questions, 10)
	assert.Equal(t, "Simulacro Aleatorio (10 preguntas)", def.Title)
}

func TestCreateFailedTestTitleAndSharing(t *testing.T) {
	db := newTestDB(t)
	testService, _, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 0, true)
	source := seedDefinition(t, db, category.ID, "Tema 1", false, []uint{q1.ID, q2.ID})

	_, err := attemptService.Submit(1, source.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Selected: 3},
		{QuestionID: q2.ID, Selected: 3},
	}, 0)
	require.NoError(t, err)

	def, err := testService.CreateFailedTest(1, 0)
	require.NoError(t, err)

	assert.Equal(t, "Repaso de Fallos (2 preguntas)", def.Title)
	assert.False(t, def.IsTemporary)
	assert.Len(t, def.Questions, 2)
}

func TestCreateCustomSimulacroIsTemporaryAndOwned(t *testing.T) {
	db := newTestDB(t)
	testService, _, _ := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	ids := seedQuestions(t, db, 4, true)
	source := seedDefinition(t, db, category.ID, "Tema 1", false, ids)

	def, err := testService.CreateCustomSimulacro(7, []uint{source.ID}, 3)
	require.NoError(t, err)

	assert.Equal(t, "Simulacro Personalizado (3 preguntas)", def.Title)
	assert.True(t, def.IsTemporary)
	require.NotNil(t, def.OwnerID)
	assert.Equal(t, uint(7), *def.OwnerID)
	assert.Len(t, def.Questions, 3)
}

func TestCreateRealExamUsesAccessibleCategories(t *testing.T) {
	db := newTestDB(t)
	testService, _, _ := newTestServices(t, db)

	visible := seedCategory(t, db, "Visible")
	hidden := seedCategory(t, db, "Oculta")
	q1 := seedQuestion(t, db, 0, true)
	q2 := seedQuestion(t, db, 0, true)
	seedDefinition(t, db, visible.ID, "Tema V", false, []uint{q1.ID})
	seedDefinition(t, db, hidden.ID, "Tema O", false, []uint{q2.ID})

	user := &model.User{Name: "Ana", Email: "ana@test.com", Password: "x", Role: model.Student}
	require.NoError(t, db.Create(user).Error)
	userRepo := repository.NewUserRepository(db)
	require.NoError(t, userRepo.SetAccessibleCategories(user.ID, []uint{visible.ID}))

	def, err := testService.CreateRealExamSimulacro(user.ID, model.Student, 1)
	require.NoError(t, err)

	assert.Equal(t, "Examen Real (1 preguntas)", def.Title)
	assert.True(t, def.IsTemporary)
	require.Len(t, def.Questions, 1)
	assert.Equal(t, q1.ID, def.Questions[0].ID)

	// Asking for more than the accessible pool has to fail.
	_, err = testService.CreateRealExamSimulacro(user.ID, model.Student, 2)
	var exceeds *util.LimitExceedsPoolError
	assert.ErrorAs(t, err, &exceeds)
}

func TestDeleteDefinitionCleansUpOrphans(t *testing.T) {
	db := newTestDB(t)
	testService, _, attemptService := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	shared := seedQuestion(t, db, 0, true)
	exclusive := seedQuestion(t, db, 0, true)
	doomed := seedDefinition(t, db, category.ID, "Doomed", false, []uint{shared.ID, exclusive.ID})
	seedDefinition(t, db, category.ID, "Keeper", false, []uint{shared.ID})

	attempt, err := attemptService.Submit(1, doomed.ID, []SubmittedAnswer{
		{QuestionID: shared.ID, Selected: 0},
	}, 0)
	require.NoError(t, err)

	require.NoError(t, testService.DeleteDefinition(doomed.ID))

	// The attempt and its answers go with the definition.
	var attemptCount int64
	db.Model(&model.Attempt{}).Where("id = ?", attempt.ID).Count(&attemptCount)
	assert.Zero(t, attemptCount)
	var answerCount int64
	db.Model(&model.AttemptAnswer{}).Where("attempt_id = ?", attempt.ID).Count(&answerCount)
	assert.Zero(t, answerCount)

	// The exclusive question is orphaned and removed; the shared one stays.
	var exclusiveCount int64
	db.Model(&model.Question{}).Where("id = ?", exclusive.ID).Count(&exclusiveCount)
	assert.Zero(t, exclusiveCount)
	var sharedCount int64
	db.Model(&model.Question{}).Where("id = ?", shared.ID).Count(&sharedCount)
	assert.EqualValues(t, 1, sharedCount)
}

func TestCategoryCascadeDelete(t *testing.T) {
	db := newTestDB(t)
	_, _, attemptService := newTestServices(t, db)
	categoryRepo := repository.NewCategoryRepository(db)
	userService := NewUserService(repository.NewUserRepository(db), categoryRepo)
	categoryService := NewCategoryService(db, categoryRepo, userService)

	doomedCat := seedCategory(t, db, "Borrar")
	otherCat := seedCategory(t, db, "Conservar")
	shared := seedQuestion(t, db, 0, true)
	exclusive := seedQuestion(t, db, 0, true)
	def := seedDefinition(t, db, doomedCat.ID, "Tema X", false, []uint{shared.ID, exclusive.ID})
	seedDefinition(t, db, otherCat.ID, "Tema Y", false, []uint{shared.ID})

	_, err := attemptService.Submit(1, def.ID, []SubmittedAnswer{
		{QuestionID: shared.ID, Selected: 0},
	}, 0)
	require.NoError(t, err)

	require.NoError(t, categoryService.Delete(doomedCat.ID))

	_, err = categoryService.Get(doomedCat.ID)
	assert.ErrorIs(t, err, util.ErrCategoryNotFound)

	var defCount int64
	db.Model(&model.TestDefinition{}).Where("category_id = ?", doomedCat.ID).Count(&defCount)
	assert.Zero(t, defCount)

	var attemptCount int64
	db.Model(&model.Attempt{}).Count(&attemptCount)
	assert.Zero(t, attemptCount)

	var exclusiveCount int64
	db.Model(&model.Question{}).Where("id = ?", exclusive.ID).Count(&exclusiveCount)
	assert.Zero(t, exclusiveCount)
	var sharedCount int64
	db.Model(&model.Question{}).Where("id = ?", shared.ID).Count(&sharedCount)
	assert.EqualValues(t, 1, sharedCount)
}

func TestImportQuestionsAppendsInOrder(t *testing.T) {
	db := newTestDB(t)
	testService, _, _ := newTestServices(t, db)

	category := seedCategory(t, db, "Derecho")
	existing := seedQuestions(t, db, 2, true)
	def := seedDefinition(t, db, category.ID, "Tema 1", false, existing)

	incoming := []model.Question{}
	for i := 0; i < 3; i++ {
		incoming = append(incoming, model.Question{
			Text:    fmt.Sprintf("nueva %d", i),
			Options: model.OptionList{{Text: "a"}, {Text: "b"}},
			Correct: 0,
		})
	}

	updated, err := testService.ImportQuestions(def.ID, incoming)
	require.NoError(t, err)
	require.Len(t, updated.Questions, 5)

	// Existing questions keep their positions, imports follow in order.
	assert.Equal(t, existing[0], updated.Questions[0].ID)
	assert.Equal(t, existing[1], updated.Questions[1].ID)
	assert.Equal(t, "nueva 0", updated.Questions[2].Text)
	assert.Equal(t, "nueva 2", updated.Questions[4].Text)
}
