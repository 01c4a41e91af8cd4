package service

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"gorm.io/gorm"
)

type FeedbackService struct {
	FeedbackRepo *repository.FeedbackRepository
	UserRepo     *repository.UserRepository
	Email        *EmailService
}

func NewFeedbackService(feedbackRepo *repository.FeedbackRepository, userRepo *repository.UserRepository, email *EmailService) *FeedbackService {
	return &FeedbackService{FeedbackRepo: feedbackRepo, UserRepo: userRepo, Email: email}
}

func (s *FeedbackService) Submit(userID uint, feedbackType model.FeedbackType, message, page string) (*model.Feedback, error) {
	switch feedbackType {
	case model.FeedbackSuggestion, model.FeedbackBug:
	default:
		feedbackType = model.FeedbackSuggestion
	}
	if message == "" {
		return nil, errors.New("el mensaje no puede estar vacío")
	}

	feedback := &model.Feedback{
		UserID:  userID,
		Type:    feedbackType,
		Message: message,
		Page:    page,
	}
	if err := s.FeedbackRepo.Create(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *FeedbackService) List() ([]model.Feedback, error) {
	return s.FeedbackRepo.List()
}

// Reply stores the answer and mails it to the author.
func (s *FeedbackService) Reply(feedbackID uint, replyText string) (*model.Feedback, error) {
	feedback, err := s.FeedbackRepo.FindByID(feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFeedbackNotFound
		}
		return nil, err
	}

	feedback.Replied = true
	feedback.ReplyText = replyText
	if err := s.FeedbackRepo.Update(feedback); err != nil {
		return nil, err
	}

	if user, uerr := s.UserRepo.FindByID(feedback.UserID); uerr == nil {
		s.Email.SendFeedbackReply(user, replyText)
	}
	return feedback, nil
}
