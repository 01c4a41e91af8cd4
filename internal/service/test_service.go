package service

import (
	"errors"
	"fmt"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"gorm.io/gorm"
)

type TestService struct {
	DB           *gorm.DB
	TestDefRepo  *repository.TestDefinitionRepository
	QuestionRepo *repository.QuestionRepository
	CategoryRepo *repository.CategoryRepository
	Pool         *PoolService
	UserService  *UserService
	Cfg          *config.Config
}

func NewTestService(db *gorm.DB, testDefRepo *repository.TestDefinitionRepository, questionRepo *repository.QuestionRepository, categoryRepo *repository.CategoryRepository, pool *PoolService, userService *UserService, cfg *config.Config) *TestService {
	return &TestService{
		DB:           db,
		TestDefRepo:  testDefRepo,
		QuestionRepo: questionRepo,
		CategoryRepo: categoryRepo,
		Pool:         pool,
		UserService:  userService,
		Cfg:          cfg,
	}
}

// simulacroCategory returns the reserved category that holds generated
// simulacros. It is seeded at migration; the find-or-create here only fires
// if someone deleted it at runtime.
func (s *TestService) simulacroCategory() (*model.Category, error) {
	name := s.Cfg.Simulacro.CategoryName
	category, err := s.CategoryRepo.FindByName(name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = &model.Category{Name: name, Description: "Simulacros generados automáticamente"}
	if err := s.CategoryRepo.Create(category); err != nil {
		// Lost the race against another request; re-read.
		if existing, ferr := s.CategoryRepo.FindByName(name); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return category, nil
}

func (s *TestService) assemble(title string, questions []model.Question, temporary bool, ownerID *uint) (*model.TestDefinition, error) {
	category, err := s.simulacroCategory()
	if err != nil {
		return nil, err
	}

	def := &model.TestDefinition{
		CategoryID:  category.ID,
		Title:       title,
		IsTemporary: temporary,
		OwnerID:     ownerID,
	}
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	if err := s.TestDefRepo.CreateWithQuestions(def, ids); err != nil {
		return nil, err
	}
	def.Category = category
	def.Questions = questions
	return def, nil
}

// CreateRandomTest assembles a simulacro from a uniform sample of the
// validated question bank. Random simulacros are shared: they stay visible
// in the reserved category for everyone.
func (s *TestService) CreateRandomTest(limit int) (*model.TestDefinition, error) {
	if limit <= 0 {
		limit = s.Cfg.Simulacro.DefaultLimit
	}
	questions, err := s.Pool.SelectRandom(limit)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Simulacro Aleatorio (%d preguntas)", len(questions))
	return s.assemble(title, questions, false, nil)
}

// CreateFailedTest assembles a repaso from the questions the user has
// answered wrong across all their attempts.
func (s *TestService) CreateFailedTest(userID uint, limit int) (*model.TestDefinition, error) {
	questions, err := s.Pool.SelectFailed(userID, limit)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Repaso de Fallos (%d preguntas)", len(questions))
	return s.assemble(title, questions, false, nil)
}

// CreateCustomSimulacro assembles a one-off simulacro from the union of the
// chosen definitions. The result is temporary and owned by the requester.
func (s *TestService) CreateCustomSimulacro(userID uint, defIDs []uint, limit int) (*model.TestDefinition, error) {
	questions, err := s.Pool.SelectCustom(defIDs, limit)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Simulacro Personalizado (%d preguntas)", len(questions))
	return s.assemble(title, questions, true, &userID)
}

// CreateRealExamSimulacro assembles a one-off exam drawn from every category
// the user can access.
func (s *TestService) CreateRealExamSimulacro(userID uint, role model.UserRole, limit int) (*model.TestDefinition, error) {
	if limit <= 0 {
		limit = s.Cfg.Simulacro.DefaultLimit
	}
	categoryIDs, err := s.UserService.AccessibleCategoryIDs(userID, role)
	if err != nil {
		return nil, err
	}
	questions, err := s.Pool.SelectRealExam(categoryIDs, limit)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Examen Real (%d preguntas)", len(questions))
	return s.assemble(title, questions, true, &userID)
}

func (s *TestService) Get(id uint) (*model.TestDefinition, error) {
	def, err := s.TestDefRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return def, nil
}

func (s *TestService) ListByCategory(categoryID uint) ([]model.TestDefinition, error) {
	return s.TestDefRepo.ListByCategory(categoryID)
}

// CreateDefinition makes a teacher-authored definition with an explicit
// question list in the given order.
func (s *TestService) CreateDefinition(categoryID uint, title string, questionIDs []uint) (*model.TestDefinition, error) {
	if _, err := s.CategoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}

	def := &model.TestDefinition{CategoryID: categoryID, Title: title}
	if err := s.TestDefRepo.CreateWithQuestions(def, questionIDs); err != nil {
		return nil, err
	}
	return def, nil
}

func (s *TestService) UpdateTitle(id uint, title string) (*model.TestDefinition, error) {
	def, err := s.TestDefRepo.UpdateTitle(id, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return def, nil
}

// ImportQuestions creates the given questions and appends them to the
// definition, after its existing ones.
func (s *TestService) ImportQuestions(defID uint, questions []model.Question) (*model.TestDefinition, error) {
	if _, err := s.TestDefRepo.FindByID(defID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	if err := s.QuestionRepo.CreateBatch(questions); err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	if err := s.TestDefRepo.AppendQuestions(defID, ids); err != nil {
		return nil, err
	}
	return s.Get(defID)
}

// AddQuestion creates a single question and appends it to the definition.
func (s *TestService) AddQuestion(defID uint, question *model.Question) (*model.TestDefinition, error) {
	if _, err := s.TestDefRepo.FindByID(defID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}
	if question.Topic == "" {
		question.Topic = "General"
	}
	if question.TopicTitle == "" {
		question.TopicTitle = "General"
	}

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	if err := s.TestDefRepo.AppendQuestions(defID, []uint{question.ID}); err != nil {
		return nil, err
	}
	return s.Get(defID)
}

// DeleteDefinition removes a definition, its attempts, its join rows, and
// any question left orphaned, all in one transaction.
func (s *TestService) DeleteDefinition(id uint) error {
	if _, err := s.TestDefRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTestNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var attemptIDs []uint
		if err := tx.Model(&model.Attempt{}).
			Where("test_definition_id = ?", id).
			Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}
		if len(attemptIDs) > 0 {
			if err := tx.Where("attempt_id IN ?", attemptIDs).
				Delete(&model.AttemptAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", attemptIDs).
				Delete(&model.Attempt{}).Error; err != nil {
				return err
			}
		}

		var questionIDs []uint
		if err := tx.Model(&model.TestQuestion{}).
			Where("test_definition_id = ?", id).
			Pluck("question_id", &questionIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("test_definition_id = ?", id).
			Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.TestDefinition{}, id).Error; err != nil {
			return err
		}

		for _, qid := range questionIDs {
			var refs int64
			if err := tx.Model(&model.TestQuestion{}).
				Where("question_id = ?", qid).
				Count(&refs).Error; err != nil {
				return err
			}
			if refs == 0 {
				if err := tx.Delete(&model.Question{}, qid).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
