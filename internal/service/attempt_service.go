package service

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"
	"opoboost_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// SubmittedAnswer is one answer as the client saw it. When the client
// shuffled the options, OptionOrder maps displayed positions back to
// canonical indices: OptionOrder[i] is the canonical index shown at
// position i. Selected < 0 means the question was left blank.
type SubmittedAnswer struct {
	QuestionID  uint  `json:"question" binding:"required"`
	Selected    int   `json:"answer"`
	OptionOrder []int `json:"optionOrder,omitempty"`
}

type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	TestDefRepo *repository.TestDefinitionRepository
	Stats       *StatsService
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, testDefRepo *repository.TestDefinitionRepository, stats *StatsService) *AttemptService {
	return &AttemptService{
		AttemptRepo: attemptRepo,
		TestDefRepo: testDefRepo,
		Stats:       stats,
	}
}

// ComputeScore applies the exam formula: each wrong answer discounts a
// quarter of a right one, blanks are free, and the result is scaled to 0-10
// and rounded to two decimals. Never negative.
func ComputeScore(correct, incorrect, total int) float64 {
	if total == 0 {
		return 0
	}
	net := float64(correct) - float64(incorrect)/4.0
	if net < 0 {
		net = 0
	}
	return util.Round2(net / float64(total) * 10)
}

// canonicalIndex resolves a submitted selection to the question's stored
// option order. Without an OptionOrder the selection is already canonical.
func canonicalIndex(ans SubmittedAnswer) int {
	if len(ans.OptionOrder) == 0 {
		return ans.Selected
	}
	if ans.Selected < 0 || ans.Selected >= len(ans.OptionOrder) {
		return -1
	}
	return ans.OptionOrder[ans.Selected]
}

// Submit grades a finished simulacro server-side and persists the attempt.
// Client-reported counts and scores are ignored; the stored questions are
// the only source of truth. Answers to questions not in the definition are
// dropped.
func (s *AttemptService) Submit(userID, defID uint, answers []SubmittedAnswer, durationMinutes int) (*model.Attempt, error) {
	def, err := s.TestDefRepo.FindByIDWithQuestions(defID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	byQuestion := make(map[uint]SubmittedAnswer, len(answers))
	for _, ans := range answers {
		byQuestion[ans.QuestionID] = ans
	}

	attempt := &model.Attempt{
		UserID:           userID,
		TestDefinitionID: defID,
		DurationMinutes:  durationMinutes,
	}
	for _, q := range def.Questions {
		ans, answered := byQuestion[q.ID]
		if !answered || ans.Selected < 0 {
			attempt.Blank++
			continue
		}

		selected := canonicalIndex(ans)
		isCorrect := selected >= 0 && selected < len(q.Options) && selected == q.Correct
		if isCorrect {
			attempt.Correct++
		} else {
			attempt.Incorrect++
		}
		attempt.Answers = append(attempt.Answers, model.AttemptAnswer{
			QuestionID: q.ID,
			Selected:   selected,
			IsCorrect:  isCorrect,
		})
	}

	attempt.Score = ComputeScore(attempt.Correct, attempt.Incorrect, len(def.Questions))

	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	monitoring.ObserveAttempt(attempt.Score)

	if s.Stats != nil {
		s.Stats.InvalidateUser(userID)
	}

	attempt.TestDefinition = def
	return attempt, nil
}

// Get returns an attempt if the caller owns it or is an admin.
func (s *AttemptService) Get(id, callerID uint, role model.UserRole) (*model.Attempt, error) {
	attempt, err := s.AttemptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != callerID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}

// History returns the caller's attempts, newest first.
func (s *AttemptService) History(userID uint, limit int) ([]model.Attempt, error) {
	return s.AttemptRepo.ListByUser(userID, limit)
}
