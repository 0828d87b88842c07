package repository

import (
	"context"
	"strings"

	"barangay/internal/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByContact(ctx context.Context, contact string) (*model.User, error)
	// GetApprovedByContact resolves a user by normalized contact whose account
	// status equals "approved" case-insensitively.
	GetApprovedByContact(ctx context.Context, contact string) (*model.User, error)
	GetByName(ctx context.Context, firstName, lastName string) (*model.User, error)
	List(ctx context.Context, page, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	// Delete removes the user together with their owned requests and
	// notifications. Callers run it inside a transaction for atomicity.
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByContact(ctx context.Context, contact string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "contact = ?", contact).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetApprovedByContact(ctx context.Context, contact string) (*model.User, error) {
	var user model.User
	err := GetDB(ctx, r.db).
		Where("contact = ? AND LOWER(status) = ?", contact, strings.ToLower(model.UserStatusApproved)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByName(ctx context.Context, firstName, lastName string) (*model.User, error) {
	var user model.User
	err := GetDB(ctx, r.db).
		Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
			strings.ToLower(strings.TrimSpace(firstName)),
			strings.ToLower(strings.TrimSpace(lastName))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var users []model.User
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)

	// Application-level cascade: owned children first, then the user row.
	if err := db.Where("user_id = ?", id).Delete(&model.DocumentRequest{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&model.RefreshToken{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.User{}, "id = ?", id).Error
}
