package supplychain

import "github.com/supplynet/backend/internal/domain/shared"

// HierarchyDepthMessage is reported whenever a write would make a provider
// chain longer than MaxHierarchyDepth.
const HierarchyDepthMessage = "hierarchy depth exceeds maximum of 3 links"

var (
	ErrHierarchyTooDeep = shared.NewValidationError(HierarchyDepthMessage)
	ErrSelfProvider     = shared.NewValidationError("network cannot be its own provider")
	ErrProviderCycle    = shared.NewValidationError("provider chain contains a cycle")

	ErrNetworkNotFound  = shared.NewNotFoundError("network")
	ErrProviderNotFound = shared.NewNotFoundError("provider network")
	ErrContactNotFound  = shared.NewNotFoundError("contact")
	ErrProductNotFound  = shared.NewNotFoundError("product")

	ErrNotAuthenticated = shared.NewDomainError(shared.CodeForbidden, "Authentication credentials were not provided")
	ErrInactiveCaller   = shared.NewDomainError(shared.CodeForbidden, "Account is inactive")
	ErrNotStaff         = shared.NewDomainError(shared.CodeForbidden, "Staff privileges are required")
)
