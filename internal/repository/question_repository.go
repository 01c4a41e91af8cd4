package repository

import (
	"opoboost_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Create(&questions).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) List() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

func (r *QuestionRepository) CountValidated() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("validated = ?", true).Count(&count).Error
	return count, err
}

// SampleValidated pulls a uniform random sample of validated questions,
// the SQL equivalent of a $sample aggregation.
func (r *QuestionRepository) SampleValidated(limit int) ([]model.Question, error) {
	orderExpr := "RAND()"
	if r.DB.Dialector.Name() == "sqlite" {
		orderExpr = "RANDOM()"
	}

	var questions []model.Question
	err := r.DB.Where("validated = ?", true).
		Order(orderExpr).
		Limit(limit).
		Find(&questions).Error
	return questions, err
}
