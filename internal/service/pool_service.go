package service

import (
	"math/rand"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"
)

// PoolService selects the question set a generated simulacro is built from.
// Every selector returns questions already shuffled into presentation order.
type PoolService struct {
	QuestionRepo *repository.QuestionRepository
	TestDefRepo  *repository.TestDefinitionRepository
	AttemptRepo  *repository.AttemptRepository
}

func NewPoolService(questionRepo *repository.QuestionRepository, testDefRepo *repository.TestDefinitionRepository, attemptRepo *repository.AttemptRepository) *PoolService {
	return &PoolService{
		QuestionRepo: questionRepo,
		TestDefRepo:  testDefRepo,
		AttemptRepo:  attemptRepo,
	}
}

func shuffleQuestions(questions []model.Question) {
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

// SelectRandom samples the validated question bank uniformly. A pool smaller
// than the request is an error, not a silently short simulacro.
func (s *PoolService) SelectRandom(limit int) ([]model.Question, error) {
	questions, err := s.QuestionRepo.SampleValidated(limit)
	if err != nil {
		return nil, err
	}
	if len(questions) < limit {
		return nil, &util.InsufficientPoolError{Requested: limit, Found: len(questions)}
	}
	return questions, nil
}

// SelectFailed builds the pool from every question the user has ever
// answered wrong. limit <= 0 means take all of them.
func (s *PoolService) SelectFailed(userID uint, limit int) ([]model.Question, error) {
	ids, err := s.AttemptRepo.FailedQuestionIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, util.ErrNoFailedQuestions
	}

	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoFailedQuestions
	}

	shuffleQuestions(questions)
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// SelectCustom unions the questions of the chosen definitions. Temporary
// definitions never contribute, so a simulacro built from simulacros is a
// no-op selection.
func (s *PoolService) SelectCustom(defIDs []uint, limit int) ([]model.Question, error) {
	if len(defIDs) == 0 {
		return nil, util.ErrEmptySelection
	}

	ids, err := s.TestDefRepo.QuestionIDsForDefinitions(defIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, util.ErrEmptySelection
	}
	if limit > len(ids) {
		return nil, &util.LimitExceedsPoolError{Limit: limit, Available: len(ids)}
	}

	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	shuffleQuestions(questions)
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// SelectRealExam unions the questions of every non-temporary definition in
// the categories the user can access.
func (s *PoolService) SelectRealExam(categoryIDs []uint, limit int) ([]model.Question, error) {
	ids, err := s.TestDefRepo.QuestionIDsForCategories(categoryIDs)
	if err != nil {
		return nil, err
	}
	if limit > len(ids) {
		return nil, &util.LimitExceedsPoolError{Limit: limit, Available: len(ids)}
	}

	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	shuffleQuestions(questions)
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}
