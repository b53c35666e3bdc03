package service

import (
	"context"
	"fmt"

	"opsboard/internal/model"
	"opsboard/internal/repository"
)

// ClientInput represents data required to create or update a client.
type ClientInput struct {
	Name          string
	IndustryID    *uint
	RegionID      *uint
	ContactPerson string
	ContactEmail  string
	ContactPhone  string
	Notes         string
}

// ClientService wraps client-related business logic.
type ClientService struct {
	clientRepo *repository.ClientRepository
}

func NewClientService(clientRepo *repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

func (s *ClientService) CreateClient(ctx context.Context, input ClientInput) (*model.Client, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	client := model.Client{
		Name:          input.Name,
		IndustryID:    input.IndustryID,
		RegionID:      input.RegionID,
		ContactPerson: input.ContactPerson,
		ContactEmail:  input.ContactEmail,
		ContactPhone:  input.ContactPhone,
		Notes:         input.Notes,
		IsActive:      true,
	}
	if err := s.clientRepo.Create(ctx, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients returns clients; activeOnly hides archived ones, which is what
// every picker in the UI wants.
func (s *ClientService) ListClients(ctx context.Context, activeOnly bool) ([]model.Client, error) {
	return s.clientRepo.List(ctx, activeOnly)
}

func (s *ClientService) GetClient(ctx context.Context, id uint) (*model.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *ClientService) UpdateClient(ctx context.Context, id uint, input ClientInput) (*model.Client, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.IndustryID = input.IndustryID
	client.RegionID = input.RegionID
	client.ContactPerson = input.ContactPerson
	client.ContactEmail = input.ContactEmail
	client.ContactPhone = input.ContactPhone
	client.Notes = input.Notes

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// ArchiveClient deactivates a client, keeping its row for task history.
func (s *ClientService) ArchiveClient(ctx context.Context, id uint) error {
	return s.clientRepo.Deactivate(ctx, id)
}

// DeleteClient removes a client permanently; tasks keep their rows with the
// reference cleared.
func (s *ClientService) DeleteClient(ctx context.Context, id uint) error {
	return s.clientRepo.Delete(ctx, id)
}
