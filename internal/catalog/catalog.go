// Package catalog lists the models installed on the generation backend.
//
// Listings are cached for a short TTL and concurrent refreshes share one
// backend call. A failed listing is reported as an empty catalog, never as
// an error to HTTP callers.
package catalog

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

const (
	cacheKey        = "models"
	defaultHeadroom = 1.2
	gibibyte        = 1 << 30
)

// Lister lists installed models. *client.Client and ai.Provider satisfy it.
type Lister interface {
	ListModels(ctx context.Context) ([]ai.ModelInfo, error)
}

// VRAMSource reports GPU capacity in bytes. *hardware.Capacity satisfies it.
type VRAMSource interface {
	VRAM(ctx context.Context) (uint64, bool)
}

// Model is one entry of the /models payload.
type Model struct {
	Name      string  `json:"name"`
	SizeBytes int64   `json:"size_bytes"`
	SizeGB    float64 `json:"size_gb"`
	Fits      bool    `json:"fits"`
}

// Listing is the /models payload.
type Listing struct {
	Models       []Model `json:"models"`
	VRAMDetected bool    `json:"vram_detected"`
}

// Catalog serves model listings.
type Catalog struct {
	lister      Lister
	capacity    VRAMSource
	headroom    float64
	listTimeout time.Duration
	cacheTTL    time.Duration

	cache *expirable.LRU[string, []ai.ModelInfo]
	group singleflight.Group
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCapacity sets the VRAM source used for fit checks. Without one every
// model fits.
func WithCapacity(capacity VRAMSource) Option {
	return func(c *Catalog) {
		c.capacity = capacity
	}
}

// WithHeadroom sets the factor applied to a model's size before comparing
// it with VRAM. Defaults to 1.2.
func WithHeadroom(headroom float64) Option {
	return func(c *Catalog) {
		c.headroom = headroom
	}
}

// WithListTimeout bounds each backend listing call.
func WithListTimeout(timeout time.Duration) Option {
	return func(c *Catalog) {
		c.listTimeout = timeout
	}
}

// WithCacheTTL caches successful listings for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		c.cacheTTL = ttl
	}
}

// New returns a Catalog reading from lister.
func New(lister Lister, opts ...Option) *Catalog {
	c := &Catalog{
		lister:   lister,
		headroom: defaultHeadroom,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheTTL > 0 {
		c.cache = expirable.NewLRU[string, []ai.ModelInfo](1, nil, c.cacheTTL)
	}
	return c
}

// Models returns the raw backend listing, served from cache when fresh.
func (c *Catalog) Models(ctx context.Context) ([]ai.ModelInfo, error) {
	if c.cache != nil {
		if models, ok := c.cache.Get(cacheKey); ok {
			return models, nil
		}
	}

	// The fetch is shared by every caller waiting on the key, so it must not
	// die with whichever caller happened to start it.
	ch := c.group.DoChan(cacheKey, func() (any, error) {
		listCtx := context.WithoutCancel(ctx)
		if c.listTimeout > 0 {
			var cancel context.CancelFunc
			listCtx, cancel = context.WithTimeout(listCtx, c.listTimeout)
			defer cancel()
		}

		models, err := c.lister.ListModels(listCtx)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Add(cacheKey, models)
		}
		return models, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]ai.ModelInfo), nil
	}
}

// Names returns the installed model names in backend order, skipping
// unnamed entries. A failed listing yields an empty list.
func (c *Catalog) Names(ctx context.Context) []string {
	models, err := c.Models(ctx)
	if err != nil {
		logFailure(ctx, err)
		return nil
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// Listing builds the /models payload: models sorted by name, sizes in GiB
// rounded to one decimal, and whether each fits in detected VRAM.
func (c *Catalog) Listing(ctx context.Context) Listing {
	var (
		vram     uint64
		detected bool
	)
	if c.capacity != nil {
		vram, detected = c.capacity.VRAM(ctx)
	}

	listing := Listing{Models: []Model{}, VRAMDetected: detected}

	models, err := c.Models(ctx)
	if err != nil {
		logFailure(ctx, err)
		return listing
	}

	for _, m := range models {
		if m.Name == "" {
			continue
		}
		listing.Models = append(listing.Models, Model{
			Name:      m.Name,
			SizeBytes: m.SizeBytes,
			SizeGB:    math.Round(float64(m.SizeBytes)/gibibyte*10) / 10,
			Fits:      !detected || float64(m.SizeBytes)*c.headroom < float64(vram),
		})
	}

	slices.SortFunc(listing.Models, func(a, b Model) int {
		return strings.Compare(a.Name, b.Name)
	})
	return listing
}

// Invalidate drops the cached listing.
func (c *Catalog) Invalidate() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Candidates returns all without primary, preserving order.
func Candidates(all []string, primary string) []string {
	out := make([]string, 0, len(all))
	for _, name := range all {
		if name != primary {
			out = append(out, name)
		}
	}
	return out
}

func logFailure(ctx context.Context, err error) {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Warn(ctx, "model listing failed", observability.Error(err))
	}
}
