package repository

import (
	"opoboost_backend/internal/model"

	"gorm.io/gorm"
)

type TestDefinitionRepository struct {
	DB *gorm.DB
}

func NewTestDefinitionRepository(db *gorm.DB) *TestDefinitionRepository {
	return &TestDefinitionRepository{DB: db}
}

// CreateWithQuestions inserts the definition and its ordered question rows in
// one transaction.
func (r *TestDefinitionRepository) CreateWithQuestions(def *model.TestDefinition, questionIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(def).Error; err != nil {
			return err
		}
		return createTestQuestions(tx, def.ID, questionIDs, 0)
	})
}

func createTestQuestions(tx *gorm.DB, defID uint, questionIDs []uint, startPos int) error {
	if len(questionIDs) == 0 {
		return nil
	}
	rows := make([]model.TestQuestion, 0, len(questionIDs))
	for i, qid := range questionIDs {
		rows = append(rows, model.TestQuestion{
			TestDefinitionID: defID,
			QuestionID:       qid,
			Position:         startPos + i,
		})
	}
	return tx.Create(&rows).Error
}

func (r *TestDefinitionRepository) FindByID(id uint) (*model.TestDefinition, error) {
	var def model.TestDefinition
	err := r.DB.Preload("Category").First(&def, id).Error
	return &def, err
}

// QuestionIDs returns the definition's question ids in stored order.
func (r *TestDefinitionRepository) QuestionIDs(defID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.TestQuestion{}).
		Where("test_definition_id = ?", defID).
		Order("position ASC").
		Pluck("question_id", &ids).Error
	return ids, err
}

// FindByIDWithQuestions loads the definition and populates Questions in
// stored order (the mongoose populate equivalent).
func (r *TestDefinitionRepository) FindByIDWithQuestions(id uint) (*model.TestDefinition, error) {
	def, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	ids, err := r.QuestionIDs(id)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if len(ids) > 0 {
		if err := r.DB.Where("id IN ?", ids).Find(&questions).Error; err != nil {
			return nil, err
		}
	}

	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]model.Question, 0, len(ids))
	for _, qid := range ids {
		if q, ok := byID[qid]; ok {
			ordered = append(ordered, q)
		}
	}
	def.Questions = ordered
	return def, nil
}

func (r *TestDefinitionRepository) ListByCategory(categoryID uint) ([]model.TestDefinition, error) {
	var defs []model.TestDefinition
	err := r.DB.Where("category_id = ?", categoryID).Order("title ASC").Find(&defs).Error
	return defs, err
}

func (r *TestDefinitionRepository) UpdateTitle(id uint, title string) (*model.TestDefinition, error) {
	var def model.TestDefinition
	if err := r.DB.First(&def, id).Error; err != nil {
		return nil, err
	}
	def.Title = title
	if err := r.DB.Save(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *TestDefinitionRepository) AppendQuestions(defID uint, questionIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var maxPos int
		row := tx.Model(&model.TestQuestion{}).
			Where("test_definition_id = ?", defID).
			Select("COALESCE(MAX(position), -1)").
			Row()
		if err := row.Scan(&maxPos); err != nil {
			return err
		}
		return createTestQuestions(tx, defID, questionIDs, maxPos+1)
	})
}

// QuestionIDsForDefinitions unions question ids across the given definitions.
// Temporary definitions are excluded: generated simulacros never feed other
// simulacros.
func (r *TestDefinitionRepository) QuestionIDsForDefinitions(defIDs []uint) ([]uint, error) {
	var ids []uint
	if len(defIDs) == 0 {
		return ids, nil
	}
	err := r.DB.Model(&model.TestQuestion{}).
		Joins("JOIN test_definitions ON test_definitions.id = test_questions.test_definition_id").
		Where("test_questions.test_definition_id IN ?", defIDs).
		Where("test_definitions.is_temporary = ?", false).
		Where("test_definitions.deleted_at IS NULL").
		Distinct().
		Pluck("test_questions.question_id", &ids).Error
	return ids, err
}

// QuestionIDsForCategories unions question ids across all non-temporary
// definitions of the given categories.
func (r *TestDefinitionRepository) QuestionIDsForCategories(categoryIDs []uint) ([]uint, error) {
	var ids []uint
	if len(categoryIDs) == 0 {
		return ids, nil
	}
	err := r.DB.Model(&model.TestQuestion{}).
		Joins("JOIN test_definitions ON test_definitions.id = test_questions.test_definition_id").
		Where("test_definitions.category_id IN ?", categoryIDs).
		Where("test_definitions.is_temporary = ?", false).
		Where("test_definitions.deleted_at IS NULL").
		Distinct().
		Pluck("test_questions.question_id", &ids).Error
	return ids, err
}

// CountEligible counts the definitions that count towards global progress:
// non-temporary and outside the reserved simulacro category.
func (r *TestDefinitionRepository) CountEligible(excludeCategoryID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestDefinition{}).
		Where("is_temporary = ?", false).
		Where("category_id <> ?", excludeCategoryID).
		Count(&count).Error
	return count, err
}

// ReferenceCount reports how many live definitions still reference a question.
func (r *TestDefinitionRepository) ReferenceCount(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestQuestion{}).
		Joins("JOIN test_definitions ON test_definitions.id = test_questions.test_definition_id").
		Where("test_questions.question_id = ?", questionID).
		Where("test_definitions.deleted_at IS NULL").
		Count(&count).Error
	return count, err
}
