package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barangay/internal/model"
	"barangay/internal/repository"
	"barangay/pkg/apperr"
	"barangay/pkg/contact"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type RegisterUserDTO struct {
	FirstName   string  `json:"first_name" binding:"required"`
	MiddleName  *string `json:"middle_name"`
	LastName    string  `json:"last_name" binding:"required"`
	DOB         string  `json:"dob" binding:"required"` // YYYY-MM-DD
	Gender      string  `json:"gender" binding:"required"`
	CivilStatus string  `json:"civil_status" binding:"required"`
	Contact     string  `json:"contact" binding:"required"`
	Purok       string  `json:"purok" binding:"required"`
	Barangay    string  `json:"barangay" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Province    string  `json:"province" binding:"required"`
	PostalCode  string  `json:"postal_code" binding:"required"`
	Password    string  `json:"password" binding:"required,min=6"`
	Photo       string  `json:"photo"`
	Role        string  `json:"role"`
}

type LoginDTO struct {
	Contact  string `json:"contact" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserDTO struct {
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
	Contact    *string `json:"contact"`
	Status     *string `json:"status"`
	Role       *string `json:"role"`
}

type UserResponse struct {
	ID          uint    `json:"id"`
	FirstName   string  `json:"first_name"`
	MiddleName  *string `json:"middle_name"`
	LastName    string  `json:"last_name"`
	DOB         string  `json:"dob"`
	Gender      string  `json:"gender"`
	CivilStatus string  `json:"civil_status"`
	Contact     string  `json:"contact"`
	Purok       string  `json:"purok"`
	Barangay    string  `json:"barangay"`
	City        string  `json:"city"`
	Province    string  `json:"province"`
	PostalCode  string  `json:"postal_code"`
	Photo       string  `json:"photo"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// --- Interface ---

type UserService interface {
	Register(ctx context.Context, req RegisterUserDTO) (UserResponse, error)
	Login(ctx context.Context, req LoginDTO) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id uint) (UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserDTO) (UserResponse, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	users    repository.UserRepository
	tokens   repository.RefreshTokenRepository
	txm      repository.TransactionManager
	notifier *Notifier
	secret   []byte
	now      func() time.Time
}

func NewUserService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	txm repository.TransactionManager,
	notifier *Notifier,
	secret []byte,
) UserService {
	return &userService{
		users:    users,
		tokens:   tokens,
		txm:      txm,
		notifier: notifier,
		secret:   secret,
		now:      time.Now,
	}
}

// --- Implementation ---

func validateRole(role string) bool {
	return role == model.RoleResident || role == model.RoleSecretary || role == model.RoleAdmin
}

func (s *userService) Register(ctx context.Context, req RegisterUserDTO) (UserResponse, error) {
	normalized, err := contact.Normalize(req.Contact)
	if err != nil {
		return UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleResident
	}
	if !validateRole(role) {
		return UserResponse{}, apperr.New(apperr.CodeValidation, "invalid role: must be resident, secretary, or admin")
	}

	if strings.TrimSpace(req.Photo) == "" {
		return UserResponse{}, apperr.New(apperr.CodeValidation, "Photo is required for registration")
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return UserResponse{}, apperr.New(apperr.CodeValidation, "invalid date of birth, expected YYYY-MM-DD")
	}

	if _, err := s.users.GetByContact(ctx, normalized); err == nil {
		return UserResponse{}, apperr.New(apperr.CodeValidation, "Contact already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	if _, err := s.users.GetByName(ctx, req.FirstName, req.LastName); err == nil {
		return UserResponse{}, apperr.New(apperr.CodeValidation, "User with same name already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, apperr.Wrap(err, apperr.CodeStorage, "failed to hash password")
	}

	var middle *string
	if req.MiddleName != nil {
		trimmed := strings.TrimSpace(*req.MiddleName)
		if trimmed != "" {
			middle = &trimmed
		}
	}

	user := model.User{
		FirstName:   strings.TrimSpace(req.FirstName),
		MiddleName:  middle,
		LastName:    strings.TrimSpace(req.LastName),
		DOB:         dob,
		Gender:      req.Gender,
		CivilStatus: req.CivilStatus,
		Contact:     normalized,
		Purok:       req.Purok,
		Barangay:    req.Barangay,
		City:        req.City,
		Province:    req.Province,
		PostalCode:  req.PostalCode,
		Password:    string(hashed),
		Photo:       req.Photo,
		Role:        role,
		Status:      model.UserStatusPending,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return UserResponse{}, apperr.Wrap(err, apperr.CodeStorage, "failed to register user")
	}

	s.notifier.Notify(ctx, &user.ID, model.NotifTypeRegistration,
		"New User Registration",
		fmt.Sprintf("%s %s registered as %s.", user.FirstName, user.LastName, user.Role))

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginDTO) (LoginResponse, error) {
	normalized, err := contact.Normalize(req.Contact)
	if err != nil {
		return LoginResponse{}, err
	}

	user, err := s.users.GetByContact(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, apperr.New(apperr.CodeNotFound, "User not found")
		}
		return LoginResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, apperr.New(apperr.CodeValidation, "Incorrect password")
	}

	if user.Role == model.RoleResident && user.Status != model.UserStatusApproved {
		return LoginResponse{}, apperr.New(apperr.CodeValidation,
			fmt.Sprintf("Resident account not approved. Current status: %s", user.Status))
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (LoginResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.Role,
		"exp":  s.now().Add(24 * time.Hour).Unix(),
	})
	accessToken, err := token.SignedString(s.secret)
	if err != nil {
		return LoginResponse{}, apperr.Wrap(err, apperr.CodeStorage, "failed to generate token")
	}

	refresh := model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(7 * 24 * time.Hour),
	}
	if err := s.tokens.Create(ctx, &refresh); err != nil {
		return LoginResponse{}, apperr.Wrap(err, apperr.CodeStorage, "failed to store refresh token")
	}

	return LoginResponse{
		User:         toUserResponse(*user),
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
	}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, apperr.New(apperr.CodeValidation, "Invalid refresh token")
		}
		return LoginResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	if s.now().After(stored.ExpiresAt) {
		_ = s.tokens.DeleteByToken(ctx, refreshToken)
		return LoginResponse{}, apperr.New(apperr.CodeValidation, "Refresh token expired")
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return LoginResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	// Rotate: drop the used token before issuing a fresh pair.
	if err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
		return LoginResponse{}, apperr.Wrap(err, apperr.CodeStorage, "failed to rotate refresh token")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
		return apperr.Wrap(err, apperr.CodeStorage, "failed to revoke refresh token")
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, apperr.New(apperr.CodeNotFound, "User not found")
		}
		return UserResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}
	return toUserResponse(*user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.CodeStorage, "failed to fetch users")
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserDTO) (UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, apperr.New(apperr.CodeNotFound, "User not found")
		}
		return UserResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	statusChanged := false
	if req.Status != nil && *req.Status != user.Status {
		switch *req.Status {
		case model.UserStatusPending, model.UserStatusApproved, model.UserStatusRejected:
		default:
			return UserResponse{}, apperr.New(apperr.CodeValidation, fmt.Sprintf("Invalid status: %s", *req.Status))
		}
		user.Status = *req.Status
		statusChanged = true
	}
	if req.Role != nil {
		if !validateRole(*req.Role) {
			return UserResponse{}, apperr.New(apperr.CodeValidation, "invalid role: must be resident, secretary, or admin")
		}
		user.Role = *req.Role
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.MiddleName != nil {
		trimmed := strings.TrimSpace(*req.MiddleName)
		if trimmed == "" {
			user.MiddleName = nil
		} else {
			user.MiddleName = &trimmed
		}
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Contact != nil {
		normalized, err := contact.Normalize(*req.Contact)
		if err != nil {
			return UserResponse{}, err
		}
		user.Contact = normalized
	}

	if err := s.users.Update(ctx, user); err != nil {
		return UserResponse{}, apperr.Wrap(err, apperr.CodeStorage, "failed to update user")
	}

	if statusChanged {
		s.notifier.Notify(ctx, &user.ID, model.NotifTypeAccount,
			fmt.Sprintf("Account %s", user.Status),
			fmt.Sprintf("Your resident account is now '%s'.", user.Status))
	}

	return toUserResponse(*user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "User not found")
		}
		return apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	// One atomic unit: the user and all owned requests/notifications.
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		return s.users.Delete(txCtx, id)
	})
	if err != nil {
		return apperr.Wrap(err, apperr.CodeStorage, "failed to delete user")
	}
	return nil
}

// --- Helpers ---

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		MiddleName:  u.MiddleName,
		LastName:    u.LastName,
		DOB:         u.DOB.Format("2006-01-02"),
		Gender:      u.Gender,
		CivilStatus: u.CivilStatus,
		Contact:     u.Contact,
		Purok:       u.Purok,
		Barangay:    u.Barangay,
		City:        u.City,
		Province:    u.Province,
		PostalCode:  u.PostalCode,
		Photo:       u.Photo,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}
