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

	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRequestDTO struct {
	DocumentType string `json:"document_type" binding:"required"`
	Purpose      string `json:"purpose" binding:"required"`
	Copies       int    `json:"copies"`
	Requirements string `json:"requirements"`
	Photo        string `json:"photo"`
	Contact      string `json:"contact" binding:"required"`
	Notes        string `json:"notes"`
}

type StatusUpdateDTO struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// ResubmitRequestDTO carries the resident-editable fields. Each field is
// applied independently, only when present in the payload.
type ResubmitRequestDTO struct {
	DocumentType *string `json:"document_type"`
	Purpose      *string `json:"purpose"`
	Copies       *int    `json:"copies"`
	Requirements *string `json:"requirements"`
	Photo        *string `json:"photo"`
	Notes        *string `json:"notes"`
}

type RequestListFilter struct {
	Contact        string
	Status         string
	IncludeDeleted bool
}

// OwnerSummary is the minimal nested owner view embedded in responses.
type OwnerSummary struct {
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	Photo      string  `json:"photo"`
}

type RequestResponse struct {
	ID           uint          `json:"id"`
	DocumentType string        `json:"document_type"`
	Purpose      string        `json:"purpose"`
	Copies       int           `json:"copies"`
	Requirements string        `json:"requirements"`
	Photo        *string       `json:"photo"`
	Contact      string        `json:"contact"`
	Notes        string        `json:"notes"`
	Status       string        `json:"status"`
	Action       string        `json:"action"`
	UserID       uint          `json:"user_id"`
	PickupDate   *time.Time    `json:"pickup_date"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	User         *OwnerSummary `json:"user"`
}

// --- Interface ---

// RequestService is the document-request lifecycle engine. All mutations run
// as one atomic unit of work; notifications are emitted after commit and
// never affect the outcome of the owning operation.
type RequestService interface {
	CreateRequest(ctx context.Context, req CreateRequestDTO) (RequestResponse, error)
	GetRequest(ctx context.Context, id uint, includeDeleted bool) (RequestResponse, error)
	ListRequests(ctx context.Context, filter RequestListFilter) ([]RequestResponse, error)
	UpdateStatus(ctx context.Context, req StatusUpdateDTO) (RequestResponse, error)
	Resubmit(ctx context.Context, id uint, req ResubmitRequestDTO) (RequestResponse, error)
	SoftDelete(ctx context.Context, id uint) error
}

type requestService struct {
	requests repository.DocumentRequestRepository
	users    repository.UserRepository
	docTypes repository.DocumentTypeRepository
	txm      repository.TransactionManager
	notifier *Notifier
	now      func() time.Time
}

func NewRequestService(
	requests repository.DocumentRequestRepository,
	users repository.UserRepository,
	docTypes repository.DocumentTypeRepository,
	txm repository.TransactionManager,
	notifier *Notifier,
) RequestService {
	return &requestService{
		requests: requests,
		users:    users,
		docTypes: docTypes,
		txm:      txm,
		notifier: notifier,
		now:      time.Now,
	}
}

// --- Implementation ---

func (s *requestService) CreateRequest(ctx context.Context, req CreateRequestDTO) (RequestResponse, error) {
	normalized, err := contact.Normalize(req.Contact)
	if err != nil {
		return RequestResponse{}, err
	}

	user, err := s.users.GetApprovedByContact(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, apperr.New(apperr.CodeValidation,
				fmt.Sprintf("User with contact '%s' not found or not approved", normalized))
		}
		return RequestResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	docTypeName := strings.TrimSpace(req.DocumentType)
	docType, err := s.docTypes.GetByName(ctx, docTypeName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, apperr.New(apperr.CodeValidation,
				fmt.Sprintf("Unknown document type: %s", docTypeName))
		}
		return RequestResponse{}, apperr.Wrap(err, apperr.CodeStorage, "database error")
	}
	if !docType.Active {
		return RequestResponse{}, apperr.New(apperr.CodeValidation,
			fmt.Sprintf("Document type '%s' is no longer issued", docType.Name))
	}

	copies := req.Copies
	if copies < 1 {
		copies = 1
	}

	var photo *string
	if trimmed := strings.TrimSpace(req.Photo); trimmed != "" {
		photo = &trimmed
	}

	record := model.DocumentRequest{
		DocumentType: docType.Name,
		Purpose:      strings.TrimSpace(req.Purpose),
		Copies:       copies,
		Requirements: strings.TrimSpace(req.Requirements),
		Photo:        photo,
		Contact:      normalized,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       model.StatusPending,
		Action:       model.ActionReview,
		UserID:       user.ID,
		IsDeleted:    false,
	}

	if err := s.requests.Create(ctx, &record); err != nil {
		return RequestResponse{}, apperr.Wrap(err, apperr.CodeStorage, "failed to create document request")
	}

	s.notifier.Notify(ctx, &user.ID, model.NotifTypeRequest,
		"New Document Request Submitted",
		fmt.Sprintf("Your request for %s has been submitted and is now under review.", record.DocumentType))

	record.User = user
	return toRequestResponse(record), nil
}

func (s *requestService) GetRequest(ctx context.Context, id uint, includeDeleted bool) (RequestResponse, error) {
	record, err := s.requests.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return RequestResponse{}, mapLookupErr(err)
	}
	return toRequestResponse(*record), nil
}

func (s *requestService) ListRequests(ctx context.Context, filter RequestListFilter) ([]RequestResponse, error) {
	repoFilter := repository.RequestFilter{Status: filter.Status}
	if filter.Contact != "" {
		normalized, err := contact.Normalize(filter.Contact)
		if err != nil {
			return nil, err
		}
		repoFilter.Contact = normalized
	}

	records, err := s.requests.List(ctx, repoFilter, filter.IncludeDeleted)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStorage, "failed to fetch document requests")
	}

	result := make([]RequestResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toRequestResponse(r))
	}
	return result, nil
}

func (s *requestService) UpdateStatus(ctx context.Context, req StatusUpdateDTO) (RequestResponse, error) {
	var record *model.DocumentRequest
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		loaded, err := s.requests.FindByIDForUpdate(txCtx, req.ID, false)
		if err != nil {
			return mapLookupErr(err)
		}

		if err := s.applyTransition(loaded, req.Status, req.Action, req.Notes); err != nil {
			return err
		}

		loaded.UpdatedAt = s.now()
		if err := s.requests.Save(txCtx, loaded); err != nil {
			return apperr.Wrap(err, apperr.CodeStorage, "failed to update document request")
		}
		record = loaded
		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.notifier.Notify(ctx, &record.UserID, model.NotifTypeRequest,
		fmt.Sprintf("Request %s", record.Status),
		fmt.Sprintf("Your document request for %s is now '%s'.", record.DocumentType, record.Status))

	return s.GetRequest(ctx, record.ID, false)
}

// applyTransition validates and applies a status change, deriving the
// dependent action/notes/pickup fields. It mutates req only when the
// transition is valid.
func (s *requestService) applyTransition(req *model.DocumentRequest, target, action, notes string) error {
	switch target {
	case model.StatusReturned:
		req.Status = model.StatusReturned
		req.Notes = defaultString(notes, "Request returned for correction")
		req.Action = defaultString(action, model.ActionUpdateRequest)

	case model.StatusRejected:
		req.Status = model.StatusRejected
		req.Notes = defaultString(notes, "Request rejected")
		req.Action = defaultString(action, model.ActionReject)

	case model.StatusApproved, model.StatusForPrint, model.StatusCompleted:
		req.Status = target
		req.Action = defaultString(action, model.ActionReview)
		req.Notes = ""

	case model.StatusForPickup:
		req.Status = model.StatusForPickup
		req.Action = defaultString(action, model.ActionPickup)
		req.Notes = ""
		pickup := s.now()
		req.PickupDate = &pickup

	case model.StatusPending:
		if req.Status != model.StatusReturned {
			return apperr.New(apperr.CodeValidation, "Only Returned requests can be resubmitted")
		}
		req.Status = model.StatusPending
		req.Action = defaultString(action, model.ActionResubmitted)
		req.Notes = ""

	default:
		// Covers unknown strings and Cancelled, which is reachable only
		// through the soft-delete path.
		return apperr.New(apperr.CodeValidation, fmt.Sprintf("Invalid status: %s", target))
	}
	return nil
}

func (s *requestService) Resubmit(ctx context.Context, id uint, req ResubmitRequestDTO) (RequestResponse, error) {
	var record *model.DocumentRequest
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		loaded, err := s.requests.FindByIDForUpdate(txCtx, id, false)
		if err != nil {
			return mapLookupErr(err)
		}

		if loaded.Status != model.StatusReturned {
			return apperr.New(apperr.CodeValidation, "Only Returned requests can be resubmitted")
		}

		if req.DocumentType != nil {
			name := strings.TrimSpace(*req.DocumentType)
			docType, err := s.docTypes.GetByName(txCtx, name)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.CodeValidation, fmt.Sprintf("Unknown document type: %s", name))
				}
				return apperr.Wrap(err, apperr.CodeStorage, "database error")
			}
			loaded.DocumentType = docType.Name
		}
		if req.Purpose != nil {
			loaded.Purpose = strings.TrimSpace(*req.Purpose)
		}
		if req.Copies != nil {
			if *req.Copies < 1 {
				return apperr.New(apperr.CodeValidation, "Copies must be at least 1")
			}
			loaded.Copies = *req.Copies
		}
		if req.Requirements != nil {
			loaded.Requirements = strings.TrimSpace(*req.Requirements)
		}
		if req.Photo != nil {
			photo := strings.TrimSpace(*req.Photo)
			loaded.Photo = &photo
		}
		if req.Notes != nil {
			loaded.Notes = strings.TrimSpace(*req.Notes)
		}

		loaded.Status = model.StatusPending
		loaded.Action = model.ActionResubmitted
		loaded.UpdatedAt = s.now()

		if err := s.requests.Save(txCtx, loaded); err != nil {
			return apperr.Wrap(err, apperr.CodeStorage, "failed to update document request")
		}
		record = loaded
		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.notifier.Notify(ctx, &record.UserID, model.NotifTypeRequest,
		"Request Resubmitted",
		fmt.Sprintf("%s request was updated and resubmitted for review.", record.DocumentType))

	return s.GetRequest(ctx, record.ID, false)
}

func (s *requestService) SoftDelete(ctx context.Context, id uint) error {
	var record *model.DocumentRequest
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		loaded, err := s.requests.FindByIDForUpdate(txCtx, id, true)
		if err != nil {
			return mapLookupErr(err)
		}

		if loaded.IsDeleted {
			return apperr.New(apperr.CodeConflict, "Request already deleted")
		}

		now := s.now()
		loaded.IsDeleted = true
		loaded.DeletedAt = &now
		loaded.Status = model.StatusCancelled
		loaded.UpdatedAt = now

		if err := s.requests.Save(txCtx, loaded); err != nil {
			return apperr.Wrap(err, apperr.CodeStorage, "failed to delete document request")
		}
		record = loaded
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, &record.UserID, model.NotifTypeRequest,
		"Request Cancelled",
		fmt.Sprintf("Your request for %s has been cancelled.", record.DocumentType))

	return nil
}

// --- Helpers ---

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func mapLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.CodeNotFound, "Request not found")
	}
	return apperr.Wrap(err, apperr.CodeStorage, "database error")
}

func toRequestResponse(r model.DocumentRequest) RequestResponse {
	resp := RequestResponse{
		ID:           r.ID,
		DocumentType: r.DocumentType,
		Purpose:      r.Purpose,
		Copies:       r.Copies,
		Requirements: r.Requirements,
		Photo:        r.Photo,
		Contact:      r.Contact,
		Notes:        r.Notes,
		Status:       r.Status,
		Action:       r.Action,
		UserID:       r.UserID,
		PickupDate:   r.PickupDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.User != nil {
		resp.User = &OwnerSummary{
			FirstName:  r.User.FirstName,
			MiddleName: r.User.MiddleName,
			LastName:   r.User.LastName,
			Photo:      r.User.Photo,
		}
	}
	return resp
}
