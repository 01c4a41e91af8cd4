package service

import (
	"errors"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo     *repository.UserRepository
	CategoryRepo *repository.CategoryRepository
}

func NewUserService(userRepo *repository.UserRepository, categoryRepo *repository.CategoryRepository) *UserService {
	return &UserService{UserRepo: userRepo, CategoryRepo: categoryRepo}
}

func (s *UserService) ListActive() ([]model.User, error) {
	return s.UserRepo.ListByValidated(true)
}

func (s *UserService) ListPending() ([]model.User, error) {
	return s.UserRepo.ListByValidated(false)
}

func (s *UserService) UpdateRole(userID uint, role model.UserRole) error {
	switch role {
	case model.Student, model.Teacher, model.Admin:
	default:
		return errors.New("rol inválido")
	}
	return s.UserRepo.UpdateRole(userID, role)
}

func (s *UserService) Delete(userID uint) error {
	return s.UserRepo.Delete(userID)
}

func (s *UserService) SetAccessibleCategories(userID uint, categoryIDs []uint) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.SetAccessibleCategories(userID, categoryIDs)
}

// AccessibleCategoryIDs resolves the categories visible to a user. Teachers
// and admins see everything; students only their assigned set.
func (s *UserService) AccessibleCategoryIDs(userID uint, role model.UserRole) ([]uint, error) {
	if role == model.Teacher || role == model.Admin {
		categories, err := s.CategoryRepo.List()
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(categories))
		for _, cat := range categories {
			ids = append(ids, cat.ID)
		}
		return ids, nil
	}
	return s.UserRepo.AccessibleCategoryIDs(userID)
}
