// Package concept implements the concept operations the dashboard calls:
// fetching normalized records, editing fields and moving concepts through
// the lifecycle.
package concept

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nhle/content-hub/internal/checkpoint"
	"github.com/nhle/content-hub/internal/logging"
	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/normalize"
	"github.com/nhle/content-hub/internal/store"
)

var (
	// ErrNotReady means the current stage still has open checkpoints.
	ErrNotReady = errors.New("not all checkpoints of the current stage are complete")

	// ErrFinalStage means there is no forward stage to advance to.
	ErrFinalStage = errors.New("no further stage to advance to")

	// ErrUnknownStatus means a status outside the lifecycle was requested.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrUnknownCheckpoint means the checkpoint is not part of the
	// concept's current stage.
	ErrUnknownCheckpoint = errors.New("checkpoint not in current stage")

	// ErrUnknownField means the field is not a checkpoint-bound field.
	ErrUnknownField = errors.New("unknown concept field")
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = time.Minute

	conceptsKeyPrefix   = "concepts:"
	businessesKeyPrefix = "businesses:"
)

// Options tunes a Service. Zero values select defaults.
type Options struct {
	// Timeout bounds every document store call.
	Timeout time.Duration

	// CacheTTL is how long fetched lists are reused.
	CacheTTL time.Duration

	// Now overrides the clock.
	Now func() time.Time

	Logger *logging.Logger
}

// Service owns the fetched-data cache and applies concept mutations to the
// document store and the checkpoint store.
type Service struct {
	docs        store.DocumentStore
	checkpoints *checkpoint.Store
	cache       *cache.Cache
	norm        normalize.Normalizer
	timeout     time.Duration
	now         func() time.Time
	log         *logging.Logger
}

// NewService creates a Service.
func NewService(docs store.DocumentStore, checkpoints *checkpoint.Store, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Service{
		docs:        docs,
		checkpoints: checkpoints,
		cache:       cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		norm:        normalize.Normalizer{Now: opts.Now},
		timeout:     opts.Timeout,
		now:         opts.Now,
		log:         opts.Logger,
	}
}

// call runs fn with the per-call store deadline applied.
func (s *Service) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

func (s *Service) timestamp() string {
	return normalize.FormatTime(s.now())
}

// invalidate drops every cached list under prefix.
func (s *Service) invalidate(prefix string) {
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
	s.log.Debug("cache invalidated", "prefix", prefix)
}

// cloneConcepts deep-copies a cached list so callers never share it.
func cloneConcepts(in []model.Concept) []model.Concept {
	out := make([]model.Concept, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneBusinesses(in []model.Business) []model.Business {
	out := make([]model.Business, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

func ownerFilter(userID string) *store.Filter {
	if userID == "" {
		return nil
	}
	return &store.Filter{Field: model.FieldUserID, Value: userID}
}

// FetchAll returns every concept owned by userID, or all concepts when
// userID is empty. Results are cached until the next mutation or TTL.
func (s *Service) FetchAll(ctx context.Context, userID string) ([]model.Concept, error) {
	key := conceptsKeyPrefix + userID
	if cached, ok := s.cache.Get(key); ok {
		return cloneConcepts(cached.([]model.Concept)), nil
	}

	var records []store.Record
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.docs.ListAll(ctx, store.CollectionConcepts, ownerFilter(userID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching concepts: %w", err)
	}

	concepts := make([]model.Concept, 0, len(records))
	for _, r := range records {
		concepts = append(concepts, s.norm.Concept(r.ID, r.Data))
	}
	s.cache.Set(key, cloneConcepts(concepts), cache.DefaultExpiration)
	return concepts, nil
}

// Reload drops the cached list and fetches it again.
func (s *Service) Reload(ctx context.Context, userID string) ([]model.Concept, error) {
	s.cache.Delete(conceptsKeyPrefix + userID)
	return s.FetchAll(ctx, userID)
}

// Get returns one normalized concept.
func (s *Service) Get(ctx context.Context, id string) (model.Concept, error) {
	var doc model.Document
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.docs.GetOne(ctx, store.CollectionConcepts, id)
		return err
	})
	if err != nil {
		return model.Concept{}, fmt.Errorf("getting concept %s: %w", id, err)
	}
	return s.norm.Concept(id, doc), nil
}

// AllTasks returns the embedded tasks of every concept owned by userID in
// the flattened task vocabulary.
func (s *Service) AllTasks(ctx context.Context, userID string) ([]model.Task, error) {
	concepts, err := s.FetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	for _, c := range concepts {
		tasks = append(tasks, normalize.Tasks(c)...)
	}
	return tasks, nil
}

// Update writes a partial change to a concept. Computed fields in patch are
// ignored and updatedAt is refreshed.
func (s *Service) Update(ctx context.Context, id string, patch model.Patch) error {
	p := make(model.Patch, len(patch)+1)
	for k, v := range patch {
		p[k] = v
	}
	p[model.FieldUpdatedAt] = s.timestamp()

	err := s.call(ctx, func(ctx context.Context) error {
		return s.docs.UpdateFields(ctx, store.CollectionConcepts, id, normalize.Denormalize(p))
	})
	if err != nil {
		return fmt.Errorf("updating concept %s: %w", id, err)
	}
	s.invalidate(conceptsKeyPrefix)
	return nil
}

// ListBusinesses returns every business owned by userID.
func (s *Service) ListBusinesses(ctx context.Context, userID string) ([]model.Business, error) {
	key := businessesKeyPrefix + userID
	if cached, ok := s.cache.Get(key); ok {
		return cloneBusinesses(cached.([]model.Business)), nil
	}

	var records []store.Record
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.docs.ListAll(ctx, store.CollectionBusinesses, ownerFilter(userID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching businesses: %w", err)
	}

	businesses := make([]model.Business, 0, len(records))
	for _, r := range records {
		businesses = append(businesses, s.norm.Business(r.ID, r.Data))
	}
	s.cache.Set(key, cloneBusinesses(businesses), cache.DefaultExpiration)
	return businesses, nil
}

// GetBusiness returns one normalized business.
func (s *Service) GetBusiness(ctx context.Context, id string) (model.Business, error) {
	var doc model.Document
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.docs.GetOne(ctx, store.CollectionBusinesses, id)
		return err
	})
	if err != nil {
		return model.Business{}, fmt.Errorf("getting business %s: %w", id, err)
	}
	return s.norm.Business(id, doc), nil
}
