package service

import (
	"context"
	"testing"
	"time"

	"barangay/internal/database"
	"barangay/internal/model"
	"barangay/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	// and serializes writers, which SQLite requires anyway.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

type testEnv struct {
	db       *gorm.DB
	requests RequestService
	users    UserService
	notifs   NotificationService
	docTypes DocumentTypeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewDocumentRequestRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	docTypeRepo := repository.NewDocumentTypeRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	notifier := NewNotifier(notifRepo, nil)

	return &testEnv{
		db:       db,
		requests: NewRequestService(requestRepo, userRepo, docTypeRepo, txm, notifier),
		users:    NewUserService(userRepo, tokenRepo, txm, notifier, []byte("test_secret")),
		notifs:   NewNotificationService(notifRepo),
		docTypes: NewDocumentTypeService(docTypeRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, contactNo, status string) *model.User {
	t.Helper()

	user := model.User{
		FirstName:   "Juan",
		LastName:    "Dela Cruz " + contactNo,
		DOB:         time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
		Gender:      "Male",
		CivilStatus: "Single",
		Contact:     contactNo,
		Purok:       "Purok 3",
		Barangay:    "San Isidro",
		City:        "Quezon City",
		Province:    "Metro Manila",
		PostalCode:  "1100",
		Password:    "hashed",
		Photo:       "photo.jpg",
		Role:        model.RoleResident,
		Status:      status,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}

func (e *testEnv) createDocType(t *testing.T, name string) *model.DocumentType {
	t.Helper()

	docType := model.DocumentType{
		Name:   name,
		Fee:    decimal.NewFromInt(50),
		Active: true,
	}
	require.NoError(t, e.db.Create(&docType).Error)
	return &docType
}

func (e *testEnv) createRequest(t *testing.T, user *model.User, status string) *model.DocumentRequest {
	t.Helper()

	req := model.DocumentRequest{
		DocumentType: "Barangay Clearance",
		Purpose:      "Employment",
		Copies:       1,
		Contact:      user.Contact,
		Status:       status,
		Action:       model.ActionReview,
		UserID:       user.ID,
	}
	require.NoError(t, e.db.Create(&req).Error)
	return &req
}

func (e *testEnv) notificationCount(t *testing.T, userID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(&model.Notification{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func (e *testEnv) reloadRequest(t *testing.T, id uint) *model.DocumentRequest {
	t.Helper()

	var req model.DocumentRequest
	require.NoError(t, e.db.First(&req, "id = ?", id).Error)
	return &req
}

var testCtx = context.Background()
