package services

import (
	"context"
	"errors"

	"facture-backend/internal/models"
	"facture-backend/internal/realtime"
)

// ClientRepo is the storage surface the client service needs
type ClientRepo interface {
	Create(ctx context.Context, c *models.Client) error
	Get(ctx context.Context, userID, id int) (*models.Client, error)
	ListActive(ctx context.Context, userID int) ([]*models.Client, error)
	ListTrashed(ctx context.Context, userID int) ([]*models.Client, error)
	Update(ctx context.Context, c *models.Client) error
	SoftDelete(ctx context.Context, userID, id int) error
	Restore(ctx context.Context, userID, id int) error
	PermanentlyDelete(ctx context.Context, userID, id int) error
	PurgeTrash(ctx context.Context, userID int) (int, error)
}

// Notifier receives change events for a user's listings. The websocket hub
// implements it; a nil-safe no-op keeps tests and the hub optional.
type Notifier interface {
	Notify(userID int, entity, view string)
	NotifyBoth(userID int, entity string)
}

type ClientService struct {
	Repo     ClientRepo
	notifier Notifier
}

func NewClientService(repo ClientRepo) *ClientService {
	return &ClientService{Repo: repo}
}

// SetNotifier wires the change-feed hub. Optional.
func (s *ClientService) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *ClientService) notifyActive(userID int) {
	if s.notifier != nil {
		s.notifier.Notify(userID, realtime.EntityClients, realtime.ViewActive)
	}
}

func (s *ClientService) notifyBoth(userID int) {
	if s.notifier != nil {
		s.notifier.NotifyBoth(userID, realtime.EntityClients)
	}
}

func (s *ClientService) notifyTrash(userID int) {
	if s.notifier != nil {
		s.notifier.Notify(userID, realtime.EntityClients, realtime.ViewTrash)
	}
}

func (s *ClientService) CreateClient(ctx context.Context, userID int, req *models.CreateClientRequest) (*models.Client, error) {
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}

	client := &models.Client{
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := s.Repo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.notifyActive(userID)
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, userID, id int) (*models.Client, error) {
	return s.Repo.Get(ctx, userID, id)
}

func (s *ClientService) ListClients(ctx context.Context, userID int) ([]*models.Client, error) {
	return s.Repo.ListActive(ctx, userID)
}

func (s *ClientService) ListTrashedClients(ctx context.Context, userID int) ([]*models.Client, error) {
	return s.Repo.ListTrashed(ctx, userID)
}

func (s *ClientService) UpdateClient(ctx context.Context, userID, id int, req *models.UpdateClientRequest) (*models.Client, error) {
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}

	client := &models.Client{
		ID:      id,
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := s.Repo.Update(ctx, client); err != nil {
		return nil, err
	}

	s.notifyActive(userID)
	return s.Repo.Get(ctx, userID, id)
}

// DeleteClient moves the client to the trash
func (s *ClientService) DeleteClient(ctx context.Context, userID, id int) error {
	if err := s.Repo.SoftDelete(ctx, userID, id); err != nil {
		return err
	}
	s.notifyBoth(userID)
	return nil
}

// RestoreClient moves a trashed client back to the active listing
func (s *ClientService) RestoreClient(ctx context.Context, userID, id int) error {
	if err := s.Repo.Restore(ctx, userID, id); err != nil {
		return err
	}
	s.notifyBoth(userID)
	return nil
}

// PermanentlyDeleteClient removes one client for good
func (s *ClientService) PermanentlyDeleteClient(ctx context.Context, userID, id int) error {
	if err := s.Repo.PermanentlyDelete(ctx, userID, id); err != nil {
		return err
	}
	s.notifyBoth(userID)
	return nil
}

// PurgeTrash empties the client trash. Returns the number of removed rows;
// on error nothing was removed and the caller may retry.
func (s *ClientService) PurgeTrash(ctx context.Context, userID int) (int, error) {
	n, err := s.Repo.PurgeTrash(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.notifyTrash(userID)
	}
	return n, nil
}
