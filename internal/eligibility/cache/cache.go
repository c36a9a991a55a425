// Package cache stores evaluation summaries in Redis so repeated submissions
// of the same profile (wizard back-and-forth, PDF generation after the
// results page) skip re-evaluation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"beneficios/internal/eligibility/models"
)

const keyPrefix = "beneficios:summary:"

// SummaryCache is a Redis-backed cache of EvaluationSummary values keyed by
// catalog version and profile content. Entries for an older catalog version
// are never read again and age out with the TTL.
type SummaryCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSummaryCache returns a cache with the given entry lifetime.
func NewSummaryCache(client redis.UniversalClient, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Key derives the cache key. The profile is hashed, so no household data is
// stored in key names.
func Key(catalogVersion string, profile *models.CitizenProfile) (string, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("encode profile for cache key: %w", err)
	}
	return keyPrefix + catalogVersion + ":" + strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

// Get returns the cached summary, or nil, false on a miss.
func (c *SummaryCache) Get(ctx context.Context, catalogVersion string, profile *models.CitizenProfile) (*models.EvaluationSummary, bool, error) {
	key, err := Key(catalogVersion, profile)
	if err != nil {
		return nil, false, err
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get summary: %w", err)
	}

	var summary models.EvaluationSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, true, nil
}

// Set stores the summary for the profile.
func (c *SummaryCache) Set(ctx context.Context, catalogVersion string, profile *models.CitizenProfile, summary *models.EvaluationSummary) error {
	key, err := Key(catalogVersion, profile)
	if err != nil {
		return err
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}
