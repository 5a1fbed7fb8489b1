package supplychain

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/shared/valueobject"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"go.uber.org/zap"
)

// ContactService handles contact records for the admin console.
type ContactService struct {
	txScope     TransactionScope
	contactRepo supplychain.ContactRepository
	logger      *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(txScope TransactionScope, contactRepo supplychain.ContactRepository, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		txScope:     txScope,
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// Create stores a new contact
func (s *ContactService) Create(ctx context.Context, req ContactRequest) (*ContactResponse, error) {
	email, address, err := contactFields(req)
	if err != nil {
		return nil, err
	}
	contact := supplychain.NewContact(email, address)
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}
	s.logger.Info("contact created", zap.String("contact_id", contact.ID.String()))
	resp := ToContactResponse(contact)
	return &resp, nil
}

// GetByID returns one contact
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// List returns a page of contacts and the total count
func (s *ContactService) List(ctx context.Context, page, pageSize int) ([]ContactResponse, int64, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	contacts, total, err := s.contactRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ToContactResponse(&contacts[i])
	}
	return out, total, nil
}

// Update replaces every field of a contact
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	email, address, err := contactFields(req)
	if err != nil {
		return nil, err
	}
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contact.Update(email, address)
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}
	s.logger.Info("contact updated", zap.String("contact_id", id.String()))
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Delete removes a contact and clears it from every network that used it.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	var detached int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.ContactRepo().FindByID(ctx, id); err != nil {
			return err
		}
		var err error
		detached, err = repos.NetworkRepo().DetachContact(ctx, id)
		if err != nil {
			return err
		}
		return repos.ContactRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("contact deleted",
		zap.String("contact_id", id.String()),
		zap.Int64("detached_networks", detached),
	)
	return nil
}

func contactFields(req ContactRequest) (valueobject.Email, valueobject.Address, error) {
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return valueobject.Email{}, valueobject.Address{}, shared.WrapDomainError(shared.CodeValidation, err.Error(), err)
	}
	address, err := valueobject.NewAddress(
		valueobject.WithCountry(req.Country),
		valueobject.WithCity(req.City),
		valueobject.WithStreet(req.Street),
		valueobject.WithHouseNumber(req.HouseNumber),
	)
	if err != nil {
		return valueobject.Email{}, valueobject.Address{}, shared.WrapDomainError(shared.CodeValidation, err.Error(), err)
	}
	return email, address, nil
}
