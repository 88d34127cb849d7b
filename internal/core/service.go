package core

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"guildcore/pkg/domain"
)

// Service exposes the guild recommendation operations on top of a persistent
// plant store. A site profile and its candidate pool are computed once per
// parameter set and reused across repeated recommendation calls; each call
// assembles a fresh guild.
type Service struct {
	store   domain.PersistentStore
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	rng     *rand.Rand
	nowFn   func() time.Time

	mu    sync.Mutex
	pools map[string]cachedPool
}

type cachedPool struct {
	profile SiteProfile
	pool    CandidatePool
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: noopLogger{},
		tracer: noopTracer{},
		nowFn:  func() time.Time { return time.Now().UTC() },
		pools:  make(map[string]cachedPool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// ImportPlants persists a batch of records within one transaction. Blocking
// rule violations abort the whole batch; warnings are logged and returned in
// the result. A successful import invalidates cached candidate pools.
func (s *Service) ImportPlants(ctx context.Context, records []PlantRecord) (int, Result, error) {
	const op = "import_plants"
	started := s.nowFn()
	ctx, span := s.tracer.Start(ctx, op)

	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		for _, record := range records {
			if _, err := tx.CreatePlant(record); err != nil {
				return err
			}
		}
		return nil
	})
	s.observe(ctx, span, op, started, err)
	if err != nil {
		return 0, res, err
	}

	for _, warning := range res.Warnings() {
		s.logger.Warn("import rule warning", "rule", warning.Rule, "message", warning.Message)
	}
	s.invalidatePools()
	s.logger.Info("imported plant records", "count", len(records))
	return len(records), res, nil
}

// ListPlants returns the full committed collection.
func (s *Service) ListPlants(ctx context.Context) []PlantRecord {
	const op = "list_plants"
	started := s.nowFn()
	ctx, span := s.tracer.Start(ctx, op)
	plants := s.store.ListPlants()
	s.observe(ctx, span, op, started, nil)
	return plants
}

// GetPlant retrieves one record by ID.
func (s *Service) GetPlant(_ context.Context, id string) (PlantRecord, bool) {
	return s.store.GetPlant(id)
}

// CountPlants reports the committed collection size.
func (s *Service) CountPlants(context.Context) int {
	return s.store.CountPlants()
}

// RecommendGuild normalizes the raw site parameters, filters the collection
// to a site-compatible pool, and assembles one guild. Identical parameter
// sets reuse the cached immutable pool; every call draws fresh randomness.
func (s *Service) RecommendGuild(ctx context.Context, params SiteParams) (Guild, SiteProfile, error) {
	const op = "recommend_guild"
	started := s.nowFn()
	ctx, span := s.tracer.Start(ctx, op)

	entry, err := s.poolFor(params)
	if err != nil {
		s.observe(ctx, span, op, started, err)
		return Guild{}, SiteProfile{}, err
	}

	guild, err := NewAssembler(entry.pool, entry.profile, s.rng).Assemble()
	s.observe(ctx, span, op, started, err)
	if err != nil {
		return Guild{}, entry.profile, err
	}
	s.logger.Debug("assembled guild",
		"layers", len(guild.Entries), "pool_size", entry.pool.Len())
	return guild, entry.profile, nil
}

func (s *Service) poolFor(params SiteParams) (cachedPool, error) {
	key := paramsFingerprint(params)

	s.mu.Lock()
	entry, ok := s.pools[key]
	s.mu.Unlock()
	if ok {
		return entry, nil
	}

	profile, err := BuildSiteProfile(params, s.rng)
	if err != nil {
		return cachedPool{}, err
	}
	pool := FilterCandidates(s.store.ListPlants(), profile)
	entry = cachedPool{profile: profile, pool: pool}

	s.mu.Lock()
	// Another caller may have raced us here; either entry is equivalent
	// apart from the randomised layer count, so last write wins.
	s.pools[key] = entry
	s.mu.Unlock()

	s.logger.Debug("built candidate pool", "pool_size", pool.Len(), "zone", profile.Zone)
	return entry, nil
}

func (s *Service) invalidatePools() {
	s.mu.Lock()
	s.pools = make(map[string]cachedPool)
	s.mu.Unlock()
}

// paramsFingerprint keys the pool cache. pH is keyed by its derived band:
// the profile never consumes the raw reading, so pH values in one band share
// a pool while values straddling a band boundary never collide.
func paramsFingerprint(p SiteParams) string {
	layers := "auto"
	if p.NumLayers != nil {
		layers = fmt.Sprintf("%d", *p.NumLayers)
	}
	return fmt.Sprintf("z%d|ph:%s|sun:%s|soil:%s|water:%s|region:%s|t%v|e%v|p%v|l%s",
		p.Zone, BandPH(p.PH), p.Sun, p.SoilTexture, p.Water, p.Region,
		p.IncludeTrees, p.EdibleOnly, p.PerennialOnly, layers)
}
