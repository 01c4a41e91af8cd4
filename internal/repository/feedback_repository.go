package repository

import (
	"opoboost_backend/internal/model"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(feedback *model.Feedback) error {
	return r.DB.Create(feedback).Error
}

func (r *FeedbackRepository) FindByID(id uint) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.DB.Preload("User").First(&feedback, id).Error
	return &feedback, err
}

func (r *FeedbackRepository) List() ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	err := r.DB.Preload("User").Order("created_at DESC").Find(&feedbacks).Error
	return feedbacks, err
}

func (r *FeedbackRepository) Update(feedback *model.Feedback) error {
	return r.DB.Save(feedback).Error
}
