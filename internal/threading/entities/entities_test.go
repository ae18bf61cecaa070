package entities

import (
	"math/rand"
	"testing"

	"entityjobs/internal/threading/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func updaterOptions(threads, minJobSize int) core.Options {
	opts := core.DefaultOptions()
	opts.ThreadCount = threads
	opts.MinJobSize = minJobSize
	return opts
}

// =============================================================================
// WORLD TESTS
// =============================================================================

func TestWorldSpawnDespawn(t *testing.T) {
	w := NewWorld(100, 100)

	a := w.Spawn(Vec2{1, 1}, Vec2{}, 0)
	b := w.Spawn(Vec2{2, 2}, Vec2{}, 0)
	c := w.Spawn(Vec2{3, 3}, Vec2{}, 0)
	assert.Equal(t, []EntityID{0, 1, 2}, w.Items())
	assert.Equal(t, 3, w.Count())

	w.Despawn(b)
	w.Despawn(b) // already gone
	w.Despawn(EntityID(42))
	assert.False(t, w.Alive(b))
	assert.Equal(t, []EntityID{a, c}, w.Items())
	assert.Equal(t, 2, w.Count())

	// freed ids are reused and the order stays ascending
	d := w.Spawn(Vec2{4, 4}, Vec2{}, 0)
	assert.Equal(t, b, d)
	assert.Equal(t, Vec2{4, 4}, w.Positions[d])
	assert.Equal(t, []EntityID{0, 1, 2}, w.Items())
}

func TestWorldEmptyItems(t *testing.T) {
	w := NewWorld(10, 10)
	assert.Empty(t, w.Items())
	assert.Zero(t, w.Count())
}

// =============================================================================
// ENTITY UPDATER TESTS
// =============================================================================

func TestEntityUpdaterMovesEveryEntityOnce(t *testing.T) {
	w := NewWorld(10000, 10000)
	for i := 0; i < 1000; i++ {
		w.Spawn(Vec2{X: float64(i), Y: 50}, Vec2{X: 1, Y: 2}, 0)
	}

	eu, err := NewEntityUpdater(w, updaterOptions(3, 16))
	require.NoError(t, err)
	defer eu.Stop()

	for cycle := 1; cycle <= 3; cycle++ {
		removed, err := eu.Update()
		require.NoError(t, err)
		assert.Zero(t, removed)
	}

	for i, id := range w.Items() {
		require.Equal(t, Vec2{X: float64(i) + 3, Y: 56}, w.Positions[id], "entity %d", id)
	}
}

func TestEntityUpdaterBouncesOffBounds(t *testing.T) {
	w := NewWorld(10, 10)
	right := w.Spawn(Vec2{9.5, 5}, Vec2{1, 0}, 0)
	top := w.Spawn(Vec2{5, 0.5}, Vec2{0, -1}, 0)

	eu, err := NewEntityUpdater(w, updaterOptions(1, 1))
	require.NoError(t, err)
	defer eu.Stop()

	_, err = eu.Update()
	require.NoError(t, err)

	assert.InDelta(t, 9.5, w.Positions[right].X, 1e-9)
	assert.Equal(t, -1.0, w.Velocities[right].X)
	assert.InDelta(t, 0.5, w.Positions[top].Y, 1e-9)
	assert.Equal(t, 1.0, w.Velocities[top].Y)
}

func TestEntityUpdaterExpiresEntities(t *testing.T) {
	w := NewWorld(100, 100)
	for i := 0; i < 50; i++ {
		w.Spawn(Vec2{50, 50}, Vec2{}, 2)
	}
	keeper := w.Spawn(Vec2{50, 50}, Vec2{}, 0)

	eu, err := NewEntityUpdater(w, updaterOptions(2, 4))
	require.NoError(t, err)
	defer eu.Stop()

	removed, err := eu.Update()
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = eu.Update()
	require.NoError(t, err)
	assert.Equal(t, 50, removed)
	assert.Equal(t, []EntityID{keeper}, w.Items())
}

func TestEntityUpdaterAsyncDispatch(t *testing.T) {
	w := NewWorld(1000, 1000)
	for i := 0; i < 200; i++ {
		w.Spawn(Vec2{10, 10}, Vec2{1, 1}, 0)
	}

	opts := updaterOptions(4, 8)
	opts.ForceSync = false
	eu, err := NewEntityUpdater(w, opts)
	require.NoError(t, err)
	defer eu.Stop()

	require.NoError(t, eu.Dispatch())
	_, err = eu.Finish()
	require.NoError(t, err)

	for _, id := range w.Items() {
		assert.Equal(t, Vec2{11, 11}, w.Positions[id])
	}
}

func TestEntityUpdaterInline(t *testing.T) {
	w := NewWorld(100, 100)
	id := w.Spawn(Vec2{1, 1}, Vec2{1, 1}, 0)

	opts := updaterOptions(2, 1)
	opts.Inline = true
	eu, err := NewEntityUpdater(w, opts)
	require.NoError(t, err)
	assert.Same(t, w, eu.World())

	_, err = eu.Update()
	require.NoError(t, err)
	assert.Equal(t, Vec2{2, 2}, w.Positions[id])
}

func TestEntityUpdaterStop(t *testing.T) {
	w := NewWorld(100, 100)
	w.Spawn(Vec2{1, 1}, Vec2{1, 1}, 0)

	eu, err := NewEntityUpdater(w, updaterOptions(2, 1))
	require.NoError(t, err)
	require.NoError(t, eu.Stop())

	_, err = eu.Update()
	assert.ErrorIs(t, err, core.ErrSchedulerClosed)
}

func TestNewEntityUpdaterRejectsInvalidOptions(t *testing.T) {
	_, err := NewEntityUpdater(NewWorld(1, 1), updaterOptions(0, 1))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = NewEntityUpdater(nil, updaterOptions(1, 1))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestWorldPopulate(t *testing.T) {
	w := NewWorld(200, 100)
	w.Populate(rand.New(rand.NewSource(1)), 500, 3, 40)

	require.Equal(t, 500, w.Count())
	for _, id := range w.Items() {
		p, v := w.Positions[id], w.Velocities[id]
		require.True(t, p.X >= 0 && p.X <= 200 && p.Y >= 0 && p.Y <= 100, "position %v", p)
		require.True(t, v.X >= -3 && v.X <= 3 && v.Y >= -3 && v.Y <= 3, "velocity %v", v)
		require.True(t, w.Lifetimes[id] >= 20 && w.Lifetimes[id] <= 40, "lifetime %d", w.Lifetimes[id])
	}
}
