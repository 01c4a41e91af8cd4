package repository

import (
	"opoboost_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create persists the attempt together with its answer rows.
func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(attempt).Error
	})
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.Preload("Answers").
		Preload("TestDefinition").
		Preload("TestDefinition.Category").
		First(&attempt, id).Error
	return &attempt, err
}

// ListByUser returns the user's attempts newest first; limit <= 0 means all.
func (r *AttemptRepository) ListByUser(userID uint, limit int) ([]model.Attempt, error) {
	var attempts []model.Attempt
	query := r.DB.Where("user_id = ?", userID).
		Preload("TestDefinition").
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByUserAndDefinitions(userID uint, defIDs []uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	if len(defIDs) == 0 {
		return attempts, nil
	}
	err := r.DB.Where("user_id = ? AND test_definition_id IN ?", userID, defIDs).
		Order("created_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

// FailedQuestionIDs collects every question the user has answered wrong,
// deduplicated. Only answers explicitly marked incorrect qualify.
func (r *AttemptRepository) FailedQuestionIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.AttemptAnswer{}).
		Joins("JOIN attempts ON attempts.id = attempt_answers.attempt_id").
		Where("attempts.user_id = ?", userID).
		Where("attempts.deleted_at IS NULL").
		Where("attempt_answers.is_correct = ?", false).
		Distinct().
		Pluck("attempt_answers.question_id", &ids).Error
	return ids, err
}
