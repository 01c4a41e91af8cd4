package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialService manages the study documents attached to a category.
type MaterialService struct {
	MaterialRepo *repository.MaterialRepository
	CategoryRepo *repository.CategoryRepository
	Storage      *StorageService
}

func NewMaterialService(materialRepo *repository.MaterialRepository, categoryRepo *repository.CategoryRepository, storage *StorageService) *MaterialService {
	return &MaterialService{
		MaterialRepo: materialRepo,
		CategoryRepo: categoryRepo,
		Storage:      storage,
	}
}

// Upload stores the file under a collision-free object name and records it.
func (s *MaterialService) Upload(ctx context.Context, categoryID uint, title, originalName, contentType string, reader io.Reader, size int64, uploaderID uint) (*model.Material, error) {
	if _, err := s.CategoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}

	ext := filepath.Ext(originalName)
	objectName := fmt.Sprintf("materials/%d/%s%s", categoryID, uuid.New().String(), ext)

	if _, err := s.Storage.Upload(ctx, objectName, reader, size, contentType); err != nil {
		return nil, err
	}

	if title == "" {
		title = strings.TrimSuffix(originalName, ext)
	}
	material := &model.Material{
		CategoryID:  categoryID,
		Title:       title,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        size,
		UploaderID:  uploaderID,
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		// The record failed; drop the object so storage does not leak.
		s.Storage.Delete(ctx, objectName)
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) ListByCategory(categoryID uint) ([]model.Material, error) {
	return s.MaterialRepo.ListByCategory(categoryID)
}

func (s *MaterialService) URL(material *model.Material) string {
	return s.Storage.GetURL(material.ObjectName)
}

func (s *MaterialService) Delete(ctx context.Context, id uint) error {
	material, err := s.MaterialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMaterialNotFound
		}
		return err
	}

	if err := s.MaterialRepo.Delete(id); err != nil {
		return err
	}
	return s.Storage.Delete(ctx, material.ObjectName)
}
