package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/appgrid/catalogd/internal/cache"
	"github.com/appgrid/catalogd/internal/metrics"
	"github.com/appgrid/catalogd/internal/upstream"
)

// DefaultTTL is how long a computed answer stays reusable.
const DefaultTTL = time.Hour

// Provider is the upstream adapter surface the service orchestrates. Search
// returns at most limit provider records; Details returns the record for one
// application.
type Provider interface {
	Search(ctx context.Context, term string, limit int) ([]upstream.RawApp, error)
	Details(ctx context.Context, appID string) (upstream.RawApp, error)
}

// Options wires the service's collaborators and tunables.
type Options struct {
	Provider Provider
	Store    cache.Store
	TTL      time.Duration
	Epoch    int
	Logger   *slog.Logger
	Metrics  *metrics.Recorder

	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// Service validates catalog requests, derives their cache keys, and
// orchestrates cache lookup, upstream fetch, normalization, and cache upsert.
// It holds no per-request state; all cross-request sharing goes through the
// cache store.
type Service struct {
	provider Provider
	store    cache.Store
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time

	mu    sync.RWMutex
	ttl   time.Duration
	epoch int
}

// NewService builds the request router around the supplied provider and
// cache store.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		provider: opts.Provider,
		store:    opts.Store,
		logger:   logger.With(slog.String("component", "catalog")),
		metrics:  opts.Metrics,
		now:      now,
		ttl:      ttl,
		epoch:    opts.Epoch,
	}
}

// Handle answers one catalog request. The returned payload is the exact JSON
// envelope for the transport boundary: a SearchResult for search, a single
// AppRecord for details. Cache hits return the stored bytes verbatim so
// repeated queries inside the TTL window are byte identical.
func (s *Service) Handle(ctx context.Context, req Request) (json.RawMessage, error) {
	start := s.now()
	if err := req.Normalize(); err != nil {
		s.observe(req.Action, "invalid", false, s.now().Sub(start))
		return nil, err
	}

	s.mu.RLock()
	ttl := s.ttl
	epoch := s.epoch
	s.mu.RUnlock()

	key := req.CacheKey(epoch)
	logger := s.logger.With(slog.String("action", req.Action), slog.String("cache_key", key))

	if payload, ok := s.lookup(ctx, logger, key); ok {
		logger.Info("request served from cache",
			slog.Float64("latency_ms", float64(s.now().Sub(start))/float64(time.Millisecond)))
		s.observe(req.Action, "ok", true, s.now().Sub(start))
		return payload, nil
	}

	result, err := s.fetch(ctx, req)
	if err != nil {
		logger.Error("upstream fetch failed", slog.Any("error", err))
		s.observe(req.Action, "upstream_error", false, s.now().Sub(start))
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.observe(req.Action, "upstream_error", false, s.now().Sub(start))
		return nil, fmt.Errorf("%w: encode result: %w", ErrUpstream, err)
	}

	s.persist(ctx, logger, key, payload, ttl)

	logger.Info("request served from upstream",
		slog.Float64("latency_ms", float64(s.now().Sub(start))/float64(time.Millisecond)))
	s.observe(req.Action, "ok", false, s.now().Sub(start))
	return payload, nil
}

// lookup probes the cache store. Store errors degrade to a miss so a broken
// cache never fails a request that live data could answer.
func (s *Service) lookup(ctx context.Context, logger *slog.Logger, key string) (json.RawMessage, bool) {
	lookupStart := time.Now()
	entry, ok, err := s.store.Lookup(ctx, key)
	if err != nil {
		s.metrics.ObserveCacheLookup(metrics.CacheLookupError, time.Since(lookupStart))
		logger.Warn("cache lookup failed, serving live", slog.Any("error", err))
		return nil, false
	}
	if !ok || entry.Stale(s.now()) {
		s.metrics.ObserveCacheLookup(metrics.CacheLookupMiss, time.Since(lookupStart))
		return nil, false
	}
	s.metrics.ObserveCacheLookup(metrics.CacheLookupHit, time.Since(lookupStart))
	return entry.Payload, true
}

// fetch retrieves and normalizes live data for a validated request.
func (s *Service) fetch(ctx context.Context, req Request) (any, error) {
	switch req.Action {
	case ActionSearch:
		upstreamStart := time.Now()
		raw, err := s.provider.Search(ctx, req.Query, req.PerPage)
		s.metrics.ObserveUpstream(ActionSearch, err, time.Since(upstreamStart))
		if err != nil {
			return nil, err
		}
		return NormalizeSearch(raw, req.Page, req.PerPage), nil
	case ActionDetails:
		upstreamStart := time.Now()
		raw, err := s.provider.Details(ctx, req.AppID)
		s.metrics.ObserveUpstream(ActionDetails, err, time.Since(upstreamStart))
		if err != nil {
			return nil, err
		}
		return NormalizeApp(raw), nil
	default:
		return nil, fmt.Errorf("unroutable action %q", req.Action)
	}
}

// persist writes the freshly computed payload under the derived key. Upsert
// failures are logged and otherwise ignored; the cache is an optimization,
// not a correctness dependency.
func (s *Service) persist(ctx context.Context, logger *slog.Logger, key string, payload json.RawMessage, ttl time.Duration) {
	storedAt := s.now().UTC()
	entry := cache.Entry{
		Payload:   payload,
		StoredAt:  storedAt,
		ExpiresAt: storedAt.Add(ttl),
	}
	upsertStart := time.Now()
	if err := s.store.Upsert(ctx, key, entry); err != nil {
		s.metrics.ObserveCacheUpsert(metrics.CacheUpsertError, time.Since(upsertStart))
		logger.Error("cache upsert failed", slog.Any("error", err))
		return
	}
	s.metrics.ObserveCacheUpsert(metrics.CacheUpsertStored, time.Since(upsertStart))
}

// Reload applies new cache tunables from a configuration reload. When the
// epoch moves, entries under the old prefix are deleted on backends that
// support it; backends that don't simply stop seeing the old keys.
func (s *Service) Reload(ctx context.Context, ttl time.Duration, epoch int) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	oldEpoch := s.epoch
	s.ttl = ttl
	s.epoch = epoch
	s.mu.Unlock()

	if epoch != oldEpoch {
		if err := s.store.DeletePrefix(ctx, KeyPrefix(oldEpoch)); err != nil {
			s.logger.Warn("stale epoch cleanup failed", slog.Any("error", err))
		}
		s.logger.Info("cache epoch advanced", slog.Int("from", oldEpoch), slog.Int("to", epoch))
	}
}

// CacheEntries reports the store's entry count for health reporting.
func (s *Service) CacheEntries(ctx context.Context) (int64, error) {
	return s.store.Size(ctx)
}

// Close releases the cache store.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

func (s *Service) observe(action, outcome string, fromCache bool, duration time.Duration) {
	s.metrics.ObserveRequest(action, outcome, fromCache, duration)
}
