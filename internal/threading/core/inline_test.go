package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineSchedulerRunsWholeRange(t *testing.T) {
	total := 12
	rec := &rangeRecorder{}
	obs := &recordingObserver{}
	opts := testOptions(4, 1)
	opts.Observer = obs

	s, err := NewInlineScheduler(&testWorld{}, ItemsFunc[int](func() []int { return sequence(total) }), rec.record, opts)
	require.NoError(t, err)

	require.NoError(t, s.Run())
	assert.Equal(t, []Range{{0, 12}}, rec.sorted())

	total = 3
	require.NoError(t, s.RunWith(false))
	assert.Equal(t, []Range{{0, 3}}, rec.sorted())

	// empty cycles never reach the callback
	total = 0
	require.NoError(t, s.Run())
	assert.Empty(t, rec.sorted())

	assert.NoError(t, s.ForceSync())

	obs.mu.Lock()
	require.Len(t, obs.cycles, 3)
	assert.Equal(t, 12, obs.cycles[0].MainItems)
	assert.Zero(t, obs.cycles[0].ActiveWorkers)
	obs.mu.Unlock()
}

func TestInlineSchedulerValidatesConfig(t *testing.T) {
	cb := func(*JobDescriptor[*testWorld, int]) {}

	_, err := NewInlineScheduler(&testWorld{}, StaticItems[int](sequence(1)), cb, testOptions(0, 1))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewInlineScheduler(&testWorld{}, StaticItems[int](sequence(1)), cb, testOptions(1, 0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	var nilWorld *testWorld
	_, err = NewInlineScheduler(nilWorld, StaticItems[int](sequence(1)), cb, testOptions(1, 1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestInlineSchedulerRecoversPanic(t *testing.T) {
	s, err := NewInlineScheduler(&testWorld{}, StaticItems[int](sequence(4)), func(*JobDescriptor[*testWorld, int]) {
		panic("inline failure")
	}, testOptions(1, 1))
	require.NoError(t, err)

	err = s.Run()
	var panicErr *WorkerPanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, MainWorker, panicErr.Worker)
	assert.Contains(t, panicErr.Error(), "main goroutine")
}

func TestInlineSchedulerTeardown(t *testing.T) {
	s, err := NewInlineScheduler(&testWorld{}, StaticItems[int](sequence(4)), func(*JobDescriptor[*testWorld, int]) {}, testOptions(1, 1))
	require.NoError(t, err)

	require.NoError(t, s.Teardown())
	assert.ErrorIs(t, s.Run(), ErrSchedulerClosed)
	assert.ErrorIs(t, s.ForceSync(), ErrSchedulerClosed)
	assert.NoError(t, s.Teardown())
	assert.Nil(t, s.items)
	assert.Nil(t, s.job.World)
}
