package service

import (
	"context"

	"barangay/internal/repository"
	"barangay/pkg/apperr"
)

type DocumentTypeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Fee         string `json:"fee"`
}

type DocumentTypeService interface {
	ListDocumentTypes(ctx context.Context) ([]DocumentTypeResponse, error)
}

type documentTypeService struct {
	repo repository.DocumentTypeRepository
}

func NewDocumentTypeService(repo repository.DocumentTypeRepository) DocumentTypeService {
	return &documentTypeService{repo: repo}
}

func (s *documentTypeService) ListDocumentTypes(ctx context.Context) ([]DocumentTypeResponse, error) {
	types, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStorage, "failed to fetch document types")
	}

	result := make([]DocumentTypeResponse, 0, len(types))
	for _, t := range types {
		result = append(result, DocumentTypeResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Fee:         t.Fee.StringFixed(2),
		})
	}
	return result, nil
}
