package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/2beens/fitstats/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=cache_mocks_test.go -package=exercises_test

type exerciseSource interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id int) (*Exercise, error)
	List(ctx context.Context) ([]Exercise, error)
}

const MB = 1024 * 1024

// CachedRepo keeps exercises in an in-process freecache. Exercises are insert-only,
// so a cached entry is never stale; the expiry only bounds memory held by unused entries.
type CachedRepo struct {
	source        exerciseSource
	cache         *freecache.Cache
	expireSeconds int
}

func NewCachedRepo(source exerciseSource, sizeMB, expireSeconds int) *CachedRepo {
	return &CachedRepo{
		source:        source,
		cache:         freecache.NewCache(sizeMB * MB),
		expireSeconds: expireSeconds,
	}
}

func cacheKey(id int) []byte {
	return []byte("exercise::" + strconv.Itoa(id))
}

func (c *CachedRepo) put(e Exercise) {
	eBytes, err := json.Marshal(e)
	if err != nil {
		log.Errorf("exercises cache, marshal exercise %d: %s", e.ID, err)
		return
	}
	if err := c.cache.Set(cacheKey(e.ID), eBytes, c.expireSeconds); err != nil {
		log.Errorf("exercises cache, set exercise %d: %s", e.ID, err)
	}
}

func (c *CachedRepo) Add(ctx context.Context, exercise Exercise) (*Exercise, error) {
	added, err := c.source.Add(ctx, exercise)
	if err != nil {
		return nil, err
	}
	c.put(*added)
	return added, nil
}

func (c *CachedRepo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	cached, err := c.cache.Get(cacheKey(id))
	switch {
	case err == nil:
		var e Exercise
		unmarshalErr := json.Unmarshal(cached, &e)
		if unmarshalErr == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &e, nil
		}
		log.Warnf("exercises cache, corrupt entry for %d: %s", id, unmarshalErr)
	case !errors.Is(err, freecache.ErrNotFound):
		log.Warnf("exercises cache, get %d: %s", id, err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	e, err := c.source.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(*e)
	return e, nil
}

// List always hits the source and warms the cache with the result.
func (c *CachedRepo) List(ctx context.Context) ([]Exercise, error) {
	exercises, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range exercises {
		c.put(e)
	}
	return exercises, nil
}

// PrimaryMuscleGroups resolves the primary muscle group for each id.
// Ids that do not exist are left out of the result.
func (c *CachedRepo) PrimaryMuscleGroups(ctx context.Context, ids []int) (map[int]string, error) {
	groups := make(map[int]string, len(ids))
	// misses are not cached, so unknown ids must not go to the source more than once either
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, done := seen[id]; done {
			continue
		}
		seen[id] = struct{}{}

		e, err := c.Get(ctx, id)
		if errors.Is(err, ErrExerciseNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		groups[id] = e.PrimaryMuscleGroup
	}
	return groups, nil
}

func (c *CachedRepo) EntryCount() int64 {
	return c.cache.EntryCount()
}
