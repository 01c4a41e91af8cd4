package service

import (
	"errors"
	"fmt"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	DB           *gorm.DB
	QuestionRepo *repository.QuestionRepository
}

func NewQuestionService(db *gorm.DB, questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{DB: db, QuestionRepo: questionRepo}
}

func validateQuestion(q *model.Question) error {
	if q.Text == "" {
		return errors.New("la pregunta necesita un enunciado")
	}
	if len(q.Options) < 2 {
		return errors.New("la pregunta necesita al menos dos opciones")
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("índice de respuesta correcta fuera de rango: %d", q.Correct)
	}
	return nil
}

func (s *QuestionService) Create(question *model.Question) error {
	if err := validateQuestion(question); err != nil {
		return err
	}
	if question.Topic == "" {
		question.Topic = "General"
	}
	if question.TopicTitle == "" {
		question.TopicTitle = "General"
	}
	return s.QuestionRepo.Create(question)
}

// CreateBatch validates and inserts a bulk import. All or nothing: one bad
// row rejects the whole batch before anything is written.
func (s *QuestionService) CreateBatch(questions []model.Question) error {
	for i := range questions {
		if err := validateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("pregunta %d: %w", i+1, err)
		}
		if questions[i].Topic == "" {
			questions[i].Topic = "General"
		}
		if questions[i].TopicTitle == "" {
			questions[i].TopicTitle = "General"
		}
	}
	return s.QuestionRepo.CreateBatch(questions)
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) List() ([]model.Question, error) {
	return s.QuestionRepo.List()
}

func (s *QuestionService) Update(id uint, updated *model.Question) (*model.Question, error) {
	question, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	question.Text = updated.Text
	question.Options = updated.Options
	question.Correct = updated.Correct
	question.Validated = updated.Validated
	if updated.Topic != "" {
		question.Topic = updated.Topic
	}
	if updated.TopicTitle != "" {
		question.TopicTitle = updated.TopicTitle
	}

	if err := validateQuestion(question); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) SetValidated(id uint, validated bool) (*model.Question, error) {
	question, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	question.Validated = validated
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

// Delete removes the question and every join row pointing at it, so no
// definition is left with a dangling reference.
func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).
			Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}
