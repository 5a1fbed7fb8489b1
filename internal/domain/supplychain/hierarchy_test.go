package supplychain

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memHierarchy is an in-memory HierarchyReader. It stores networks as given,
// without validation, so tests can build corrupt chains.
type memHierarchy struct {
	networks map[uuid.UUID]*Network
	reads    int
}

func newMemHierarchy() *memHierarchy {
	return &memHierarchy{networks: make(map[uuid.UUID]*Network)}
}

func (m *memHierarchy) FindByIDForShare(_ context.Context, id uuid.UUID) (*Network, error) {
	m.reads++
	n, ok := m.networks[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memHierarchy) FindChildrenForShare(_ context.Context, id uuid.UUID) ([]Network, error) {
	var out []Network
	for _, n := range m.networks {
		if n.ProviderID != nil && *n.ProviderID == id {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memHierarchy) put(t *testing.T, name string, provider *Network) *Network {
	t.Helper()
	n, err := NewNetwork(name, LevelFactory)
	require.NoError(t, err)
	if provider != nil {
		id := provider.ID
		n.ProviderID = &id
	}
	m.networks[n.ID] = n
	return n
}

func linkTo(n *Network, provider *Network) *Network {
	id := provider.ID
	n.ProviderID = &id
	return n
}

func TestComputeDepth_NoProvider(t *testing.T) {
	store := newMemHierarchy()
	root := store.put(t, "Factory", nil)

	depth, err := NewHierarchyValidator(store).ComputeDepth(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 0, depth)
	assert.Equal(t, 0, store.reads)
}

func TestComputeDepth_ThreeNodeChain(t *testing.T) {
	store := newMemHierarchy()
	a := store.put(t, "A", nil)
	b := store.put(t, "B", a)
	c := store.put(t, "C", b)
	v := NewHierarchyValidator(store)

	depth, err := v.ComputeDepth(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
	assert.NoError(t, v.Validate(context.Background(), c, false))

	d, err := NewNetwork("D", LevelIndividualEntrepreneur)
	require.NoError(t, err)
	linkTo(d, c)

	depth, err = v.ComputeDepth(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 3, depth)

	err = v.Validate(context.Background(), d, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHierarchyTooDeep)
	assert.Equal(t, HierarchyDepthMessage, err.Error())
}

func TestComputeDepth_SelfProvider(t *testing.T) {
	store := newMemHierarchy()
	a := store.put(t, "A", nil)
	linkTo(a, a)

	_, err := NewHierarchyValidator(store).ComputeDepth(context.Background(), a)
	assert.ErrorIs(t, err, ErrSelfProvider)
}

func TestComputeDepth_CycleThroughWrittenNetwork(t *testing.T) {
	store := newMemHierarchy()
	a := store.put(t, "A", nil)
	b := store.put(t, "B", a)

	// A is being re-pointed at its own child.
	pending := *a
	linkTo(&pending, b)

	err := NewHierarchyValidator(store).Validate(context.Background(), &pending, false)
	assert.ErrorIs(t, err, ErrProviderCycle)
}

func TestComputeDepth_StoredCycleTerminates(t *testing.T) {
	store := newMemHierarchy()
	x := store.put(t, "X", nil)
	y := store.put(t, "Y", x)
	linkTo(store.networks[x.ID], y)

	n, err := NewNetwork("N", LevelRetailNetwork)
	require.NoError(t, err)
	linkTo(n, x)

	_, err = NewHierarchyValidator(store).ComputeDepth(context.Background(), n)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderCycle)
	assert.LessOrEqual(t, store.reads, maxWalkSteps)
}

func TestComputeDepth_UnknownProvider(t *testing.T) {
	store := newMemHierarchy()
	n, err := NewNetwork("N", LevelFactory)
	require.NoError(t, err)
	missing := uuid.New()
	n.ProviderID = &missing

	_, err = NewHierarchyValidator(store).ComputeDepth(context.Background(), n)
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.True(t, IsNotFound(err))
}

func TestComputeDepth_ReaderError(t *testing.T) {
	boom := errors.New("connection reset")
	n, err := NewNetwork("N", LevelFactory)
	require.NoError(t, err)
	p := uuid.New()
	n.ProviderID = &p

	_, err = NewHierarchyValidator(failingReader{err: boom}).ComputeDepth(context.Background(), n)
	assert.ErrorIs(t, err, boom)
}

func TestValidate_ReparentingChecksDescendants(t *testing.T) {
	store := newMemHierarchy()
	a := store.put(t, "A", nil)
	b := store.put(t, "B", nil)
	store.put(t, "C", b)
	v := NewHierarchyValidator(store)

	// B has one child, so B can sit one level below A...
	pending := *store.networks[b.ID]
	linkTo(&pending, a)
	require.NoError(t, v.Validate(context.Background(), &pending, false))
	store.networks[b.ID] = &pending

	// ...but A cannot then move under another root, C would end up three links deep.
	r := store.put(t, "R", nil)
	movedA := *store.networks[a.ID]
	linkTo(&movedA, r)
	err := v.Validate(context.Background(), &movedA, false)
	assert.ErrorIs(t, err, ErrHierarchyTooDeep)

	height, err := v.DescendantHeight(context.Background(), a.ID, MaxHierarchyDepth)
	require.NoError(t, err)
	assert.Equal(t, 2, height)
}

func TestHierarchyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a new network is accepted iff its chain has at most two links", prop.ForAll(
		func(chainLen int) bool {
			store := newMemHierarchy()
			var last *Network
			for i := 0; i < chainLen; i++ {
				n, _ := NewNetwork("n", LevelFactory)
				if last != nil {
					linkTo(n, last)
				}
				store.networks[n.ID] = n
				last = n
			}

			candidate, _ := NewNetwork("candidate", LevelIndividualEntrepreneur)
			if last != nil {
				linkTo(candidate, last)
			}

			v := NewHierarchyValidator(store)
			err := v.Validate(context.Background(), candidate, true)
			if chainLen <= MaxHierarchyDepth {
				depth, derr := v.ComputeDepth(context.Background(), candidate)
				return err == nil && derr == nil && depth == chainLen
			}
			return errors.Is(err, ErrHierarchyTooDeep)
		},
		gen.IntRange(0, 8),
	))

	properties.Property("cyclic chains are rejected within a bounded number of reads", prop.ForAll(
		func(cycleLen int) bool {
			store := newMemHierarchy()
			nodes := make([]*Network, cycleLen)
			for i := range nodes {
				nodes[i], _ = NewNetwork("c", LevelFactory)
				store.networks[nodes[i].ID] = nodes[i]
			}
			for i := range nodes {
				linkTo(nodes[i], nodes[(i+1)%cycleLen])
			}

			candidate, _ := NewNetwork("candidate", LevelRetailNetwork)
			linkTo(candidate, nodes[0])

			err := NewHierarchyValidator(store).Validate(context.Background(), candidate, true)
			return err != nil && store.reads <= maxWalkSteps
		},
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}

type failingReader struct {
	err error
}

func (f failingReader) FindByIDForShare(context.Context, uuid.UUID) (*Network, error) {
	return nil, f.err
}

func (f failingReader) FindChildrenForShare(context.Context, uuid.UUID) ([]Network, error) {
	return nil, f.err
}
