package repository

import (
	"context"
	"strings"

	"barangay/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestFilter narrows List results. Contact must already be normalized by
// the caller; Status matches case-insensitively.
type RequestFilter struct {
	Contact string
	Status  string
}

// DocumentRequestRepository defines data access for document requests.
type DocumentRequestRepository interface {
	Create(ctx context.Context, req *model.DocumentRequest) error
	FindByID(ctx context.Context, id uint, includeDeleted bool) (*model.DocumentRequest, error)
	// FindByIDForUpdate loads a request under a row lock. Must be called
	// inside a transaction (via TransactionManager).
	FindByIDForUpdate(ctx context.Context, id uint, includeDeleted bool) (*model.DocumentRequest, error)
	List(ctx context.Context, filter RequestFilter, includeDeleted bool) ([]model.DocumentRequest, error)
	Save(ctx context.Context, req *model.DocumentRequest) error
}

type documentRequestRepository struct {
	db *gorm.DB
}

func NewDocumentRequestRepository(db *gorm.DB) DocumentRequestRepository {
	return &documentRequestRepository{db: db}
}

func (r *documentRequestRepository) Create(ctx context.Context, req *model.DocumentRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *documentRequestRepository) FindByID(ctx context.Context, id uint, includeDeleted bool) (*model.DocumentRequest, error) {
	var req model.DocumentRequest
	query := GetDB(ctx, r.db).Preload("User")
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if err := query.First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *documentRequestRepository) FindByIDForUpdate(ctx context.Context, id uint, includeDeleted bool) (*model.DocumentRequest, error) {
	db := GetDB(ctx, r.db)
	// SQLite serializes writers and rejects FOR UPDATE, so only lock on
	// Postgres. The surrounding transaction still gives atomicity either way.
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if !includeDeleted {
		db = db.Where("is_deleted = ?", false)
	}
	var req model.DocumentRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *documentRequestRepository) List(ctx context.Context, filter RequestFilter, includeDeleted bool) ([]model.DocumentRequest, error) {
	query := GetDB(ctx, r.db).Preload("User")
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Contact != "" {
		query = query.Where("contact = ?", filter.Contact)
	}
	if filter.Status != "" {
		query = query.Where("LOWER(status) = ?", strings.ToLower(strings.TrimSpace(filter.Status)))
	}

	var requests []model.DocumentRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *documentRequestRepository) Save(ctx context.Context, req *model.DocumentRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}
