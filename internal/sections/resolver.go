package sections

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/events"
	logginginfra "github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Result is the outcome of one asynchronous resolution.
type Result struct {
	Type        string
	Prefix      string
	SectionType *SectionType
	Err         error
}

type outcome struct {
	sectionType *SectionType
	err         error
}

// Resolver memoizes section type resolution per (type, prefix). Concurrent
// requests for the same key share one load. Failures are memoized too, so a
// broken type is reported once rather than reloaded on every render; Invalidate
// drops entries when the underlying definitions change.
type Resolver struct {
	loader    Loader
	logger    ports.Logger
	publisher ports.EventPublisher
	policy    Policy

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]outcome
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(logger ports.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPublisher publishes resolution and invalidation events.
func WithPublisher(publisher ports.EventPublisher) Option {
	return func(r *Resolver) { r.publisher = publisher }
}

// WithPolicy selects how API version mismatches are treated.
func WithPolicy(policy Policy) Option {
	return func(r *Resolver) {
		if policy != "" {
			r.policy = policy
		}
	}
}

// NewResolver wraps loader with memoization.
func NewResolver(loader Loader, opts ...Option) *Resolver {
	r := &Resolver{
		loader: loader,
		logger: logginginfra.NewNoOpLogger(),
		policy: PolicyStrict,
		cache:  make(map[string]outcome),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "resolver")
	return r
}

// Resolve returns the implementation of sectionType under prefix. Errors are
// *errors.ResolutionError values.
func (r *Resolver) Resolve(ctx context.Context, sectionType, prefix string) (*SectionType, error) {
	key := catalogKey(prefix, sectionType)
	if cached, ok := r.lookup(key); ok {
		return cached.sectionType, cached.err
	}

	value, err, _ := r.group.Do(key, func() (interface{}, error) {
		if cached, ok := r.lookup(key); ok {
			return cached.sectionType, cached.err
		}
		return r.load(ctx, key, sectionType, prefix)
	})
	if err != nil {
		return nil, err
	}
	return value.(*SectionType), nil
}

// ResolveAsync resolves on a new goroutine. The channel receives exactly one
// Result and is then closed. The caller never blocks on a cache hit either.
func (r *Resolver) ResolveAsync(ctx context.Context, sectionType, prefix string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		t, err := r.Resolve(ctx, sectionType, prefix)
		out <- Result{Type: sectionType, Prefix: prefix, SectionType: t, Err: err}
	}()
	return out
}

// Cached reports a memoized outcome without loading.
func (r *Resolver) Cached(sectionType, prefix string) (*SectionType, error, bool) {
	cached, ok := r.lookup(catalogKey(prefix, sectionType))
	return cached.sectionType, cached.err, ok
}

// Invalidate forgets every memoized outcome under prefix.
func (r *Resolver) Invalidate(ctx context.Context, prefix string) int {
	want := strings.TrimSuffix(prefix, "/") + "/"
	r.mu.Lock()
	dropped := 0
	for key := range r.cache {
		if strings.HasPrefix(key, want) && !strings.Contains(strings.TrimPrefix(key, want), "/") {
			delete(r.cache, key)
			dropped++
		}
	}
	r.mu.Unlock()

	if dropped > 0 {
		r.logger.Debug(ctx, "invalidated resolutions", "path_prefix", prefix, "count", dropped)
		r.publish(ctx, ports.EventSectionsInvalidated, map[string]interface{}{"path_prefix": prefix, "count": dropped})
	}
	return dropped
}

// InvalidateAll forgets every memoized outcome.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]outcome)
	r.mu.Unlock()
}

func (r *Resolver) lookup(key string) (outcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cached, ok := r.cache[key]
	return cached, ok
}

func (r *Resolver) load(ctx context.Context, key, sectionType, prefix string) (*SectionType, error) {
	start := time.Now()
	t, err := r.loader.Load(ctx, sectionType, prefix)
	if err == nil {
		err = r.admit(ctx, t)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, sferrors.NewResolutionError(sectionType, prefix, err)
		}
		err = sferrors.NewResolutionError(sectionType, prefix, err)
		r.store(key, outcome{err: err})
		r.logger.Warn(ctx, "section type unresolvable", "section_type", sectionType, "path_prefix", prefix, "error", err)
		r.publish(ctx, ports.EventSectionResolutionFailed, map[string]interface{}{
			"section_type": sectionType, "path_prefix": prefix, "error": err.Error(),
		})
		return nil, err
	}

	r.store(key, outcome{sectionType: t})
	r.logger.Debug(ctx, "section type resolved", "section_type", sectionType, "path_prefix", prefix, "version", t.Version, "duration", time.Since(start))
	r.publish(ctx, ports.EventSectionResolved, map[string]interface{}{
		"section_type": sectionType, "path_prefix": prefix,
	})
	return t, nil
}

func (r *Resolver) admit(ctx context.Context, t *SectionType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := t.Compatible(); err != nil {
		if r.policy == PolicyStrict || !errors.Is(err, ErrIncompatible) {
			return err
		}
		r.logger.Warn(ctx, "using incompatible section type", "section_type", t.Name, "error", err)
	}
	return nil
}

func (r *Resolver) store(key string, value outcome) {
	r.mu.Lock()
	r.cache[key] = value
	r.mu.Unlock()
}

func (r *Resolver) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if r.publisher == nil {
		return
	}
	_ = r.publisher.Publish(ctx, events.Event{Type: eventType, Data: data})
}
