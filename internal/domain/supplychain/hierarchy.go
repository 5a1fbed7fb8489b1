package supplychain

import (
	"context"

	"github.com/google/uuid"
)

// MaxHierarchyDepth is the largest number of provider links allowed between
// a network and its root: factory, retail network, individual entrepreneur.
const MaxHierarchyDepth = 2

// maxWalkSteps bounds every walk over provider links so corrupted data
// (including cycles not caught on write) cannot loop forever.
const maxWalkSteps = MaxHierarchyDepth + 1

// HierarchyReader is the read side of the network store the depth rule needs.
// Both reads hold a shared row lock until the surrounding transaction ends,
// so a concurrent write that moves an ancestor or adds a child waits for the
// check and then sees the committed chain.
type HierarchyReader interface {
	// FindByIDForShare returns ErrNetworkNotFound (or another NOT_FOUND error) when absent.
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*Network, error)
	// FindChildrenForShare returns the networks whose provider is id.
	FindChildrenForShare(ctx context.Context, id uuid.UUID) ([]Network, error)
}

// HierarchyValidator enforces the depth limit on provider chains.
type HierarchyValidator struct {
	reader HierarchyReader
}

// NewHierarchyValidator creates a validator reading through reader.
func NewHierarchyValidator(reader HierarchyReader) *HierarchyValidator {
	return &HierarchyValidator{reader: reader}
}

// ComputeDepth counts provider links from n up to a providerless network.
// It uses n's in-memory ProviderID, so it sees an unsaved change, and reads
// every ancestor from the store. Reaching n again reports ErrProviderCycle;
// walking past maxWalkSteps links reports ErrHierarchyTooDeep.
func (v *HierarchyValidator) ComputeDepth(ctx context.Context, n *Network) (int, error) {
	if n.ProviderID != nil && *n.ProviderID == n.ID {
		return 0, ErrSelfProvider
	}

	depth := 0
	seen := map[uuid.UUID]struct{}{n.ID: {}}
	next := n.ProviderID
	for next != nil {
		if _, ok := seen[*next]; ok {
			return depth, ErrProviderCycle
		}
		if depth >= maxWalkSteps {
			return depth, ErrHierarchyTooDeep
		}
		provider, err := v.reader.FindByIDForShare(ctx, *next)
		if err != nil {
			if depth == 0 && IsNotFound(err) {
				return 0, ErrProviderNotFound
			}
			return depth, err
		}
		depth++
		seen[provider.ID] = struct{}{}
		next = provider.ProviderID
	}
	return depth, nil
}

// DescendantHeight returns the number of links from n down to its deepest
// descendant. The walk stops once it passes limit levels.
func (v *HierarchyValidator) DescendantHeight(ctx context.Context, id uuid.UUID, limit int) (int, error) {
	height := 0
	frontier := []uuid.UUID{id}
	seen := map[uuid.UUID]struct{}{id: {}}
	for len(frontier) > 0 && height <= limit {
		var nextLevel []uuid.UUID
		for _, parent := range frontier {
			children, err := v.reader.FindChildrenForShare(ctx, parent)
			if err != nil {
				return height, err
			}
			for _, child := range children {
				if _, ok := seen[child.ID]; ok {
					return height, ErrProviderCycle
				}
				seen[child.ID] = struct{}{}
				nextLevel = append(nextLevel, child.ID)
			}
		}
		if len(nextLevel) == 0 {
			break
		}
		height++
		frontier = nextLevel
	}
	return height, nil
}

// Validate rejects n when its own chain, or the chain of any network below
// it, would exceed MaxHierarchyDepth links. isNew skips the descendant walk
// for records that cannot have children yet.
func (v *HierarchyValidator) Validate(ctx context.Context, n *Network, isNew bool) error {
	depth, err := v.ComputeDepth(ctx, n)
	if err != nil {
		return err
	}
	if depth > MaxHierarchyDepth {
		return ErrHierarchyTooDeep
	}
	if isNew {
		return nil
	}

	room := MaxHierarchyDepth - depth
	height, err := v.DescendantHeight(ctx, n.ID, room)
	if err != nil {
		return err
	}
	if depth+height > MaxHierarchyDepth {
		return ErrHierarchyTooDeep
	}
	return nil
}
