package supplychain

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/shared"
)

// ActionClearArrears is the name of the bulk action that zeroes debt.
const ActionClearArrears = "clear_arrears"

// BulkAction is an operation the console can run on selected networks.
// Name and Description are fixed when the action is registered.
type BulkAction struct {
	Name        string
	Description string
	Run         func(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ActionRegistry holds the console's bulk actions by name.
type ActionRegistry struct {
	actions map[string]BulkAction
}

// NewActionRegistry registers the built-in network actions.
func NewActionRegistry(networks *NetworkService) *ActionRegistry {
	r := &ActionRegistry{actions: make(map[string]BulkAction)}
	r.Register(BulkAction{
		Name:        ActionClearArrears,
		Description: "Clear arrears for selected networks",
		Run:         networks.ClearArrears,
	})
	return r
}

// Register adds or replaces an action.
func (r *ActionRegistry) Register(action BulkAction) {
	r.actions[action.Name] = action
}

// Describe lists the registered actions sorted by name.
func (r *ActionRegistry) Describe() []ActionDescriptor {
	out := make([]ActionDescriptor, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, ActionDescriptor{Name: a.Name, Description: a.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run executes the named action on ids.
func (r *ActionRegistry) Run(ctx context.Context, name string, ids []uuid.UUID) (*BulkActionResult, error) {
	action, ok := r.actions[name]
	if !ok {
		return nil, shared.NewNotFoundError("action")
	}
	affected, err := action.Run(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &BulkActionResult{
		Action:      action.Name,
		Description: action.Description,
		Affected:    affected,
	}, nil
}
