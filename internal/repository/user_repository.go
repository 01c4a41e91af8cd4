package repository

import (
	"strings"
	"time"

	"opoboost_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	if user.LastSeen.IsZero() {
		user.LastSeen = time.Now()
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByResetToken(token string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("reset_token = ?", token).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) Delete(id uint) error {
	return r.DB.Delete(&model.User{}, id).Error
}

func (r *UserRepository) ListByValidated(validated bool) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("validated = ?", validated).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateRole(userID uint, role model.UserRole) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("role", role).Error
}

func (r *UserRepository) SetValidated(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("validated", true).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

// AccessibleCategoryIDs returns the categories a student is allowed to see.
// Teachers and admins bypass this at the service layer.
func (r *UserRepository) AccessibleCategoryIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Table("user_accessible_categories").
		Where("user_id = ?", userID).
		Pluck("category_id", &ids).Error
	return ids, err
}

func (r *UserRepository) SetAccessibleCategories(userID uint, categoryIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_accessible_categories WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		for _, catID := range categoryIDs {
			if err := tx.Table("user_accessible_categories").
				Create(map[string]interface{}{"user_id": userID, "category_id": catID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
