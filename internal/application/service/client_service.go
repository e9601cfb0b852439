package service

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClientService handles client-related operations
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClientInput represents the input for creating a client
type CreateClientInput struct {
	TenantID uuid.UUID
	Name     string
	Email    *string
	Phone    *string
	Address  *string
	Notes    *string
}

// UpdateClientInput represents the input for updating a client
type UpdateClientInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Notes    *string
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *CreateClientInput) (*entity.Client, error) {
	client := &entity.Client{
		TenantID: input.TenantID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Notes:    input.Notes,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, tenantID, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.ErrClientNotFound
	}
	return client, nil
}

// ListClients retrieves clients with pagination and filtering
func (s *ClientService) ListClients(ctx context.Context, tenantID uuid.UUID, params *repository.ClientFilterParams) (*pagination.PaginatedResult[entity.Client], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	clients, total, err := s.clientRepo.List(ctx, tenantID, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(clients, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// UpdateClient updates an existing client
func (s *ClientService) UpdateClient(ctx context.Context, input *UpdateClientInput) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.ErrClientNotFound
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Address != nil {
		client.Address = input.Address
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient soft-deletes a client
func (s *ClientService) DeleteClient(ctx context.Context, tenantID, id uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.ErrClientNotFound
	}
	return s.clientRepo.Delete(ctx, tenantID, id)
}
