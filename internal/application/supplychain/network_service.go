package supplychain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// NetworkService handles network writes and reads. Every write runs inside
// one transaction that also re-reads the provider chain for the depth check.
type NetworkService struct {
	txScope     TransactionScope
	networkRepo supplychain.NetworkRepository
	metrics     Metrics
	logger      *zap.Logger
}

// NewNetworkService creates a new NetworkService
func NewNetworkService(txScope TransactionScope, networkRepo supplychain.NetworkRepository, metrics Metrics, logger *zap.Logger) *NetworkService {
	if metrics == nil {
		metrics = NoopMetrics
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetworkService{
		txScope:     txScope,
		networkRepo: networkRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// networkChanges is the normalized input of every network write.
type networkChanges struct {
	name        *string
	level       *int
	contactSet  bool
	contactID   *uuid.UUID
	providerSet bool
	providerID  *uuid.UUID
	arrearsSet  bool
	arrears     *decimal.Decimal
}

func changesFromRequest(req NetworkRequest) networkChanges {
	return networkChanges{
		name:        &req.Name,
		level:       req.Level,
		contactSet:  true,
		contactID:   req.ContactID,
		providerSet: true,
		providerID:  req.ProviderID,
	}
}

// Create validates and stores a new network.
func (s *NetworkService) Create(ctx context.Context, req NetworkRequest) (*NetworkResponse, error) {
	return s.create(ctx, changesFromRequest(req))
}

// CreateWithArrears is the console variant of Create that may set arrears.
func (s *NetworkService) CreateWithArrears(ctx context.Context, req AdminNetworkRequest) (*NetworkResponse, error) {
	changes := changesFromRequest(req.NetworkRequest)
	changes.arrearsSet = true
	changes.arrears = req.Arrears
	return s.create(ctx, changes)
}

func (s *NetworkService) create(ctx context.Context, changes networkChanges) (_ *NetworkResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "network", "create")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	level, err := supplychain.ParseLevel(derefInt(changes.level))
	if err != nil {
		return nil, err
	}
	network, err := supplychain.NewNetwork(derefString(changes.name), level)
	if err != nil {
		return nil, err
	}
	changes.name = nil
	changes.level = nil

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.apply(ctx, repos, network, changes, true); err != nil {
			return err
		}
		return repos.NetworkRepo().Save(ctx, network)
	})
	if err != nil {
		return nil, err
	}

	tagNetworkSpan(span, network)
	s.metrics.RecordNetworkWrite(ctx, "create")
	s.logger.Info("network created",
		zap.String("network_id", network.ID.String()),
		zap.String("name", network.Name),
		zap.Int("level", int(network.Level)),
	)
	resp := ToNetworkResponse(network)
	return &resp, nil
}

// GetByID returns one network
func (s *NetworkService) GetByID(ctx context.Context, id uuid.UUID) (*NetworkResponse, error) {
	network, err := s.networkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToNetworkResponse(network)
	return &resp, nil
}

// List returns networks matching the filter and the total count.
func (s *NetworkService) List(ctx context.Context, filter NetworkListFilter) ([]NetworkResponse, int64, error) {
	networks, total, err := s.networkRepo.FindAll(ctx, toDomainNetworkFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	return ToNetworkResponses(networks), total, nil
}

// Update replaces the writable fields of a network. arrears keeps its value.
func (s *NetworkService) Update(ctx context.Context, id uuid.UUID, req NetworkRequest) (*NetworkResponse, error) {
	return s.update(ctx, id, changesFromRequest(req))
}

// UpdateWithArrears is the console variant of Update that may set arrears.
func (s *NetworkService) UpdateWithArrears(ctx context.Context, id uuid.UUID, req AdminNetworkRequest) (*NetworkResponse, error) {
	changes := changesFromRequest(req.NetworkRequest)
	changes.arrearsSet = true
	changes.arrears = req.Arrears
	return s.update(ctx, id, changes)
}

// Patch updates the fields present in req.
func (s *NetworkService) Patch(ctx context.Context, id uuid.UUID, req NetworkPatchRequest) (*NetworkResponse, error) {
	return s.update(ctx, id, networkChanges{
		name:        req.Name,
		level:       req.Level,
		contactSet:  req.ContactID.Set,
		contactID:   req.ContactID.ID,
		providerSet: req.ProviderID.Set,
		providerID:  req.ProviderID.ID,
	})
}

func (s *NetworkService) update(ctx context.Context, id uuid.UUID, changes networkChanges) (_ *NetworkResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "network", "update", telemetry.SpanAttrNetworkID, id)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	var network *supplychain.Network
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		network, err = repos.NetworkRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, repos, network, changes, false); err != nil {
			return err
		}
		return repos.NetworkRepo().Save(ctx, network)
	})
	if err != nil {
		return nil, err
	}

	tagNetworkSpan(span, network)
	s.metrics.RecordNetworkWrite(ctx, "update")
	s.logger.Info("network updated", zap.String("network_id", network.ID.String()))
	resp := ToNetworkResponse(network)
	return &resp, nil
}

// apply copies changes onto network and runs the depth check when the
// provider link moved. It must run inside the write's transaction.
func (s *NetworkService) apply(ctx context.Context, repos TransactionalRepositories, network *supplychain.Network, changes networkChanges, isNew bool) error {
	if changes.name != nil {
		if err := network.Rename(*changes.name); err != nil {
			return err
		}
	}
	if changes.level != nil {
		level, err := supplychain.ParseLevel(*changes.level)
		if err != nil {
			return err
		}
		if err := network.SetLevel(level); err != nil {
			return err
		}
	}
	if changes.arrearsSet {
		if err := network.SetArrears(changes.arrears); err != nil {
			return err
		}
	}
	if changes.contactSet {
		if changes.contactID != nil {
			exists, err := repos.ContactRepo().ExistsByID(ctx, *changes.contactID)
			if err != nil {
				return err
			}
			if !exists {
				return supplychain.ErrContactNotFound
			}
		}
		network.SetContact(changes.contactID)
	}

	providerChanged := false
	if changes.providerSet {
		var err error
		providerChanged, err = network.SetProvider(changes.providerID)
		if err != nil {
			s.metrics.RecordHierarchyRejected(ctx, "self_provider")
			return err
		}
	}
	if !isNew && !providerChanged {
		return nil
	}

	validator := supplychain.NewHierarchyValidator(repos.NetworkRepo())
	if err := validator.Validate(ctx, network, isNew); err != nil {
		if shared.IsCode(err, shared.CodeValidation) {
			s.metrics.RecordHierarchyRejected(ctx, rejectionReason(err))
			s.logger.Warn("network rejected by hierarchy rule",
				zap.String("network_id", network.ID.String()),
				zap.Error(err),
			)
		}
		return err
	}
	return nil
}

// Delete removes a network. Its products go with it; children and the
// network's own links are simply cleared.
func (s *NetworkService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "network", "delete", telemetry.SpanAttrNetworkID, id)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	var detached, removedProducts int64
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.NetworkRepo().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		var err error
		detached, err = repos.NetworkRepo().DetachChildren(ctx, id)
		if err != nil {
			return err
		}
		removedProducts, err = repos.ProductRepo().DeleteByNetwork(ctx, id)
		if err != nil {
			return err
		}
		return repos.NetworkRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordNetworkWrite(ctx, "delete")
	s.logger.Info("network deleted",
		zap.String("network_id", id.String()),
		zap.Int64("detached_children", detached),
		zap.Int64("deleted_products", removedProducts),
	)
	return nil
}

// ClearArrears zeroes arrears on every selected network in one statement.
// Unknown ids fail the whole batch.
func (s *NetworkService) ClearArrears(ctx context.Context, ids []uuid.UUID) (_ int64, err error) {
	ids = uniqueIDs(ids)
	ctx, span := telemetry.StartServiceSpan(ctx, "network", "clear_arrears", telemetry.SpanAttrSelected, len(ids))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	if len(ids) == 0 {
		return 0, shared.NewValidationError("at least one network must be selected")
	}

	var affected int64
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.NetworkRepo().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("network not found: %s", missing[0]))
		}
		affected, err = repos.NetworkRepo().ClearArrears(ctx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAffected, affected)
	s.metrics.RecordArrearsCleared(ctx, affected)
	s.logger.Info("arrears cleared", zap.Int("selected", len(ids)), zap.Int64("affected", affected))
	return affected, nil
}

// tagNetworkSpan records where the written network sits in the hierarchy.
func tagNetworkSpan(span trace.Span, n *supplychain.Network) {
	provider := ""
	if n.ProviderID != nil {
		provider = n.ProviderID.String()
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrNetworkID, n.ID,
		telemetry.SpanAttrLevel, int(n.Level),
		telemetry.SpanAttrProviderID, provider,
	)
}

func toDomainNetworkFilter(f NetworkListFilter) supplychain.NetworkFilter {
	base := shared.DefaultFilter()
	if f.Page > 0 {
		base.Page = f.Page
	}
	if f.PageSize > 0 {
		base.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		base.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		base.OrderDir = f.OrderDir
	}
	return supplychain.NetworkFilter{
		Filter:         base,
		ContactCountry: f.ContactCountry,
		ContactCity:    f.ContactCity,
	}
}

func rejectionReason(err error) string {
	switch err {
	case supplychain.ErrProviderCycle:
		return "cycle"
	case supplychain.ErrSelfProvider:
		return "self_provider"
	case supplychain.ErrHierarchyTooDeep:
		return "too_deep"
	default:
		return "other"
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(want []uuid.UUID, found []supplychain.Network) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, n := range found {
		have[n.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
