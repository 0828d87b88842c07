package repository

import (
	"context"

	"barangay/internal/model"

	"gorm.io/gorm"
)

// DocumentTypeRepository defines data access for the document catalog.
type DocumentTypeRepository interface {
	Create(ctx context.Context, docType *model.DocumentType) error
	GetByName(ctx context.Context, name string) (*model.DocumentType, error)
	ListActive(ctx context.Context) ([]model.DocumentType, error)
}

type documentTypeRepository struct {
	db *gorm.DB
}

func NewDocumentTypeRepository(db *gorm.DB) DocumentTypeRepository {
	return &documentTypeRepository{db: db}
}

func (r *documentTypeRepository) Create(ctx context.Context, docType *model.DocumentType) error {
	return GetDB(ctx, r.db).Create(docType).Error
}

func (r *documentTypeRepository) GetByName(ctx context.Context, name string) (*model.DocumentType, error) {
	var docType model.DocumentType
	if err := GetDB(ctx, r.db).First(&docType, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &docType, nil
}

func (r *documentTypeRepository) ListActive(ctx context.Context) ([]model.DocumentType, error) {
	var types []model.DocumentType
	if err := GetDB(ctx, r.db).Where("active = ?", true).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
