package repository

import (
	"opoboost_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(material *model.Material) error {
	return r.DB.Create(material).Error
}

func (r *MaterialRepository) FindByID(id uint) (*model.Material, error) {
	var material model.Material
	err := r.DB.First(&material, id).Error
	return &material, err
}

func (r *MaterialRepository) ListByCategory(categoryID uint) ([]model.Material, error) {
	var materials []model.Material
	err := r.DB.Where("category_id = ?", categoryID).Order("title ASC").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Material{}, id).Error
}
