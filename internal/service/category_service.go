package service

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"gorm.io/gorm"
)

type CategoryService struct {
	DB           *gorm.DB
	CategoryRepo *repository.CategoryRepository
	UserService  *UserService
}

func NewCategoryService(db *gorm.DB, categoryRepo *repository.CategoryRepository, userService *UserService) *CategoryService {
	return &CategoryService{DB: db, CategoryRepo: categoryRepo, UserService: userService}
}

// List returns the categories visible to the caller. Teachers and admins
// get all of them, students only their assigned set.
func (s *CategoryService) List(userID uint, role model.UserRole) ([]model.Category, error) {
	if role == model.Teacher || role == model.Admin {
		return s.CategoryRepo.List()
	}
	ids, err := s.UserService.UserRepo.AccessibleCategoryIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.CategoryRepo.ListByIDs(ids)
}

func (s *CategoryService) Get(id uint) (*model.Category, error) {
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Create(category *model.Category) error {
	return s.CategoryRepo.Create(category)
}

func (s *CategoryService) Update(id uint, name, description string) (*model.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		category.Name = name
	}
	category.Description = description
	if err := s.CategoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category and everything hanging off it in one
// transaction: its definitions, the attempts on those definitions, the join
// rows, any question left unreferenced afterwards, and its materials.
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var defIDs []uint
		if err := tx.Model(&model.TestDefinition{}).
			Where("category_id = ?", id).
			Pluck("id", &defIDs).Error; err != nil {
			return err
		}

		if len(defIDs) > 0 {
			var attemptIDs []uint
			if err := tx.Model(&model.Attempt{}).
				Where("test_definition_id IN ?", defIDs).
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
				Where("test_definition_id IN ?", defIDs).
				Distinct().
				Pluck("question_id", &questionIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("test_definition_id IN ?", defIDs).
				Delete(&model.TestQuestion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", defIDs).
				Delete(&model.TestDefinition{}).Error; err != nil {
				return err
			}

			// Questions are shared across definitions; only drop the ones
			// nothing references anymore.
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
		}

		if err := tx.Where("category_id = ?", id).
			Delete(&model.Material{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Category{}, id).Error
	})
}
