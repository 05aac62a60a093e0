package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniweb/omniweb/providers/ai"
)

type fakeLister struct {
	calls  atomic.Int32
	models []ai.ModelInfo
	err    error
	gate   chan struct{}
}

func (f *fakeLister) ListModels(ctx context.Context) ([]ai.ModelInfo, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.models, f.err
}

type fixedVRAM struct {
	bytes uint64
	ok    bool
}

func (f fixedVRAM) VRAM(context.Context) (uint64, bool) { return f.bytes, f.ok }

var installed = []ai.ModelInfo{
	{Name: "mistral:latest", SizeBytes: 4 * gibibyte},
	{Name: "", SizeBytes: 1},
	{Name: "llama3:70b", SizeBytes: 40 * gibibyte},
	{Name: "gemma:2b", SizeBytes: 1717986918},
}

func TestListing(t *testing.T) {
	c := New(&fakeLister{models: installed}, WithCapacity(fixedVRAM{bytes: 8 * gibibyte, ok: true}))

	listing := c.Listing(context.Background())

	assert.True(t, listing.VRAMDetected)
	require.Len(t, listing.Models, 3)
	assert.Equal(t, []Model{
		{Name: "gemma:2b", SizeBytes: 1717986918, SizeGB: 1.6, Fits: true},
		{Name: "llama3:70b", SizeBytes: 40 * gibibyte, SizeGB: 40, Fits: false},
		{Name: "mistral:latest", SizeBytes: 4 * gibibyte, SizeGB: 4, Fits: true},
	}, listing.Models)
}

func TestListing_HeadroomBoundary(t *testing.T) {
	// 5 GiB * 1.2 = 6 GiB, which is not strictly below 6 GiB
	c := New(&fakeLister{models: []ai.ModelInfo{{Name: "edge", SizeBytes: 5 * gibibyte}}},
		WithCapacity(fixedVRAM{bytes: 6 * gibibyte, ok: true}))

	listing := c.Listing(context.Background())
	require.Len(t, listing.Models, 1)
	assert.False(t, listing.Models[0].Fits)

	relaxed := New(&fakeLister{models: []ai.ModelInfo{{Name: "edge", SizeBytes: 5 * gibibyte}}},
		WithCapacity(fixedVRAM{bytes: 6 * gibibyte, ok: true}), WithHeadroom(1.1))
	assert.True(t, relaxed.Listing(context.Background()).Models[0].Fits)
}

func TestListing_UnknownVRAMFitsEverything(t *testing.T) {
	for _, c := range []*Catalog{
		New(&fakeLister{models: installed}),
		New(&fakeLister{models: installed}, WithCapacity(fixedVRAM{})),
	} {
		listing := c.Listing(context.Background())
		assert.False(t, listing.VRAMDetected)
		for _, m := range listing.Models {
			assert.True(t, m.Fits, m.Name)
		}
	}
}

func TestListing_FailureIsEmpty(t *testing.T) {
	c := New(&fakeLister{err: errors.New("connection refused")})

	listing := c.Listing(context.Background())
	assert.NotNil(t, listing.Models)
	assert.Empty(t, listing.Models)
	assert.Empty(t, c.Names(context.Background()))
}

func TestNames_PreservesBackendOrder(t *testing.T) {
	c := New(&fakeLister{models: installed})
	assert.Equal(t, []string{"mistral:latest", "llama3:70b", "gemma:2b"}, c.Names(context.Background()))
}

func TestModels_Cache(t *testing.T) {
	lister := &fakeLister{models: installed}
	c := New(lister, WithCacheTTL(time.Minute))

	for range 3 {
		_, err := c.Models(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), lister.calls.Load())

	c.Invalidate()
	_, err := c.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), lister.calls.Load())
}

func TestModels_NoCacheWithoutTTL(t *testing.T) {
	lister := &fakeLister{models: installed}
	c := New(lister)

	c.Names(context.Background())
	c.Names(context.Background())
	assert.Equal(t, int32(2), lister.calls.Load())
}

func TestModels_ErrorsAreNotCached(t *testing.T) {
	lister := &fakeLister{err: errors.New("down")}
	c := New(lister, WithCacheTTL(time.Minute))

	_, err := c.Models(context.Background())
	require.Error(t, err)

	lister.err = nil
	lister.models = installed
	models, err := c.Models(context.Background())
	require.NoError(t, err)
	assert.Len(t, models, len(installed))
}

func TestModels_ConcurrentCallsShareOneFetch(t *testing.T) {
	lister := &fakeLister{models: installed, gate: make(chan struct{})}
	c := New(lister)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			models, err := c.Models(context.Background())
			assert.NoError(t, err)
			assert.Len(t, models, len(installed))
		}()
	}

	// let the goroutines pile up behind the first fetch
	require.Eventually(t, func() bool { return lister.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(lister.gate)
	wg.Wait()

	assert.LessOrEqual(t, lister.calls.Load(), int32(5))
	assert.GreaterOrEqual(t, lister.calls.Load(), int32(1))
}

func TestModels_CancelledCallerDoesNotFailOthers(t *testing.T) {
	lister := &fakeLister{models: installed, gate: make(chan struct{})}
	c := New(lister)

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Models(first)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return lister.calls.Load() == 1 }, time.Second, time.Millisecond)

	names := make(chan []string, 1)
	go func() { names <- c.Names(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(lister.gate)
	assert.Equal(t, []string{"mistral:latest", "llama3:70b", "gemma:2b"}, <-names)
}

func TestModels_ListTimeout(t *testing.T) {
	lister := &fakeLister{gate: make(chan struct{})}
	c := New(lister, WithListTimeout(10*time.Millisecond))

	_, err := c.Models(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name    string
		all     []string
		primary string
		want    []string
	}{
		{"removes primary", []string{"a", "b", "c"}, "b", []string{"a", "c"}},
		{"primary absent", []string{"a", "c"}, "b", []string{"a", "c"}},
		{"only primary", []string{"b"}, "b", []string{}},
		{"empty", nil, "b", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Candidates(tt.all, tt.primary))
		})
	}
}
