package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/validation"
)

// MappingService handles the ISIN to ticker mapping dictionary.
type MappingService struct {
	mappingRepo *repository.MappingRepository
}

// NewMappingService creates a new MappingService with the provided repository.
func NewMappingService(mappingRepo *repository.MappingRepository) *MappingService {
	return &MappingService{mappingRepo: mappingRepo}
}

// List retrieves all mappings sorted by ISIN.
func (s *MappingService) List() ([]model.Mapping, error) {
	mappings, err := s.mappingRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveMapping, err)
	}
	return mappings, nil
}

// Get retrieves the mapping for one ISIN.
func (s *MappingService) Get(isin string) (model.Mapping, error) {
	if err := validation.ValidateIsin(isin); err != nil {
		return model.Mapping{}, err
	}
	m, err := s.mappingRepo.Get(isin)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mapping{}, apperrors.ErrMappingNotFound
	}
	if err != nil {
		return model.Mapping{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveMapping, err)
	}
	return m, nil
}

// ReplaceAll validates and swaps the entire mapping table. The mapping
// is maintained as one editable document, so saving replaces everything
// including rows the user removed.
func (s *MappingService) ReplaceAll(mappings []model.Mapping) error {
	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if err := validation.ValidateIsin(m.Isin); err != nil {
			return err
		}
		if m.Ticker == "" {
			return fmt.Errorf("%w: for isin %s", apperrors.ErrInvalidTicker, m.Isin)
		}
		if seen[m.Isin] {
			return fmt.Errorf("%w: isin %s appears twice", apperrors.ErrDuplicateEntry, m.Isin)
		}
		seen[m.Isin] = true
	}
	return s.mappingRepo.ReplaceAll(mappings)
}

// Upsert validates and stores a single mapping. Used to map one
// freshly imported ISIN without resubmitting the whole table.
func (s *MappingService) Upsert(m model.Mapping) error {
	if err := validation.ValidateIsin(m.Isin); err != nil {
		return err
	}
	if m.Ticker == "" {
		return fmt.Errorf("%w: for isin %s", apperrors.ErrInvalidTicker, m.Isin)
	}
	return s.mappingRepo.Upsert(m)
}
