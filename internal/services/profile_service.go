package services

import (
	"context"
	"errors"
	"log"

	"facture-backend/internal/metrics"
	"facture-backend/internal/models"
	"facture-backend/internal/timeutil"
)

// ProfileRepo is the storage surface the profile service needs
type ProfileRepo interface {
	GetOrCreate(ctx context.Context, userID int) (*models.CompanyProfile, error)
	Update(ctx context.Context, userID int, req *models.UpdateProfileRequest) error
	UpdateLogo(ctx context.Context, userID int, logoURL string) error
	AllocateInvoiceNumber(ctx context.Context, userID int) (int, error)
}

type ProfileService struct {
	Repo ProfileRepo
}

func NewProfileService(repo ProfileRepo) *ProfileService {
	return &ProfileService{Repo: repo}
}

// GetProfile returns the profile, creating it with defaults on first access
func (s *ProfileService) GetProfile(ctx context.Context, userID int) (*models.CompanyProfile, error) {
	return s.Repo.GetOrCreate(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.CompanyProfile, error) {
	if req.Name == "" || req.Address == "" {
		return nil, errors.New("name and address are required")
	}

	// Lazy-create so editing works before the profile was ever read
	if _, err := s.Repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, userID, req); err != nil {
		return nil, err
	}

	return s.Repo.GetOrCreate(ctx, userID)
}

func (s *ProfileService) SetLogo(ctx context.Context, userID int, logoURL string) error {
	if _, err := s.Repo.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.Repo.UpdateLogo(ctx, userID, logoURL)
}

// AllocateNext produces the next invoice number for the user. The returned
// bool reports whether the number is sequential: false means the allocator
// transaction failed and the number is a timestamp fallback. Callers that
// require strict sequencing must check it.
func (s *ProfileService) AllocateNext(ctx context.Context, userID int) (string, bool, error) {
	now := timeutil.Now()

	counter, err := s.Repo.AllocateInvoiceNumber(ctx, userID)
	if err != nil {
		log.Printf("[Allocator] Transaction failed for user %d, using timestamp fallback: %v", userID, err)
		metrics.InvoiceNumberFallbacks.Inc()
		return FallbackInvoiceNumber(now), false, nil
	}

	return FormatInvoiceNumber(now.Year(), counter), true, nil
}
