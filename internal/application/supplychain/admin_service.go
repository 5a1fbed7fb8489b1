package supplychain

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/supplychain"
)

// AdminNetworkPath is the console route of a network's edit view.
const AdminNetworkPath = "/admin/networks/"

// AdminQueryService renders the console's network change list: contact
// labels and links to each provider's edit view.
type AdminQueryService struct {
	networkRepo supplychain.NetworkRepository
	contactRepo supplychain.ContactRepository
}

// NewAdminQueryService creates a new AdminQueryService
func NewAdminQueryService(networkRepo supplychain.NetworkRepository, contactRepo supplychain.ContactRepository) *AdminQueryService {
	return &AdminQueryService{
		networkRepo: networkRepo,
		contactRepo: contactRepo,
	}
}

// ListNetworks returns change list rows; filter.ContactCity narrows by the
// linked contact's city.
func (s *AdminQueryService) ListNetworks(ctx context.Context, filter NetworkListFilter) ([]AdminNetworkListItem, int64, error) {
	networks, total, err := s.networkRepo.FindAll(ctx, toDomainNetworkFilter(filter))
	if err != nil {
		return nil, 0, err
	}

	contacts, err := s.contactsFor(ctx, networks)
	if err != nil {
		return nil, 0, err
	}
	providers, err := s.providersFor(ctx, networks)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]AdminNetworkListItem, len(networks))
	for i := range networks {
		n := &networks[i]
		rows[i] = AdminNetworkListItem{
			ID:           n.ID,
			Name:         n.Name,
			Contact:      supplychain.ContactLabel(contacts, n.ContactID),
			ProviderLink: providerLink(providers, n.ProviderID),
			Level:        int(n.Level),
			LevelLabel:   n.Level.Label(),
			Arrears:      n.Arrears,
			CreatedAt:    n.CreatedAt,
		}
	}
	return rows, total, nil
}

// GetNetwork returns the edit view of one network.
func (s *AdminQueryService) GetNetwork(ctx context.Context, id uuid.UUID) (*AdminNetworkDetail, error) {
	n, err := s.networkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	link, err := s.ProviderLinkFor(ctx, n)
	if err != nil {
		return nil, err
	}
	return &AdminNetworkDetail{
		NetworkResponse: ToNetworkResponse(n),
		LevelLabel:      n.Level.Label(),
		ProviderLink:    link,
	}, nil
}

// ProviderLinkFor renders the provider link of a single network.
func (s *AdminQueryService) ProviderLinkFor(ctx context.Context, n *supplychain.Network) (*ProviderLink, error) {
	if n.ProviderID == nil {
		return nil, nil
	}
	provider, err := s.networkRepo.FindByID(ctx, *n.ProviderID)
	if err != nil {
		if supplychain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ProviderLink{ID: provider.ID, Name: provider.Name, Href: AdminNetworkPath + provider.ID.String()}, nil
}

func (s *AdminQueryService) contactsFor(ctx context.Context, networks []supplychain.Network) (map[uuid.UUID]*supplychain.Contact, error) {
	var ids []uuid.UUID
	for _, n := range networks {
		if n.ContactID != nil {
			ids = append(ids, *n.ContactID)
		}
	}
	out := make(map[uuid.UUID]*supplychain.Contact)
	if len(ids) == 0 {
		return out, nil
	}
	contacts, err := s.contactRepo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		out[contacts[i].ID] = &contacts[i]
	}
	return out, nil
}

func (s *AdminQueryService) providersFor(ctx context.Context, networks []supplychain.Network) (map[uuid.UUID]*supplychain.Network, error) {
	var ids []uuid.UUID
	for _, n := range networks {
		if n.ProviderID != nil {
			ids = append(ids, *n.ProviderID)
		}
	}
	out := make(map[uuid.UUID]*supplychain.Network)
	if len(ids) == 0 {
		return out, nil
	}
	providers, err := s.networkRepo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for i := range providers {
		out[providers[i].ID] = &providers[i]
	}
	return out, nil
}

func providerLink(providers map[uuid.UUID]*supplychain.Network, id *uuid.UUID) *ProviderLink {
	if id == nil {
		return nil
	}
	p, ok := providers[*id]
	if !ok {
		return nil
	}
	return &ProviderLink{ID: p.ID, Name: p.Name, Href: AdminNetworkPath + p.ID.String()}
}
