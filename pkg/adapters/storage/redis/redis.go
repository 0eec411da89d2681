package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aescanero/rxplay/pkg/domain"
	"github.com/aescanero/rxplay/pkg/ports"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "rxplay:run:"

	defaultScanCount = 100
)

// RunStorage implements RunStorage using Redis
type RunStorage struct {
	client redis.UniversalClient
	logger *zap.Logger
	ttl    time.Duration

	// scanCount is the COUNT hint of each SCAN batch
	scanCount int64
}

// NewRunStorage creates a new Redis run storage. Records expire after ttl.
func NewRunStorage(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RunStorage {
	return &RunStorage{
		client:    client,
		logger:    logger,
		ttl:       ttl,
		scanCount: defaultScanCount,
	}
}

// SaveRun serializes the run and stores it with the configured TTL
func (s *RunStorage) SaveRun(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := s.client.Set(ctx, runKey(run.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	s.logger.Debug("run saved",
		zap.String("run_id", run.ID),
		zap.String("status", string(run.Status)))

	return nil
}

// GetRun retrieves a run from Redis
func (s *RunStorage) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	data, err := s.client.Get(ctx, runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &run, nil
}

// ListRuns scans all run keys and returns the runs ordered by start time.
// Keys that expire or fail to decode between SCAN and GET are skipped.
func (s *RunStorage) ListRuns(ctx context.Context) ([]*domain.Run, error) {
	var cursor uint64
	var keys []string

	for {
		var batch []string
		var err error

		batch, cursor, err = s.client.Scan(ctx, cursor, keyPrefix+"*", s.scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	runs := make([]*domain.Run, 0, len(keys))
	for _, key := range keys {
		run, err := s.GetRun(ctx, strings.TrimPrefix(key, keyPrefix))
		if err != nil {
			s.logger.Debug("skipping run", zap.String("key", key), zap.Error(err))
			continue
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})

	return runs, nil
}

// DeleteRun deletes a run from Redis
func (s *RunStorage) DeleteRun(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, runKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	s.logger.Debug("run deleted", zap.String("run_id", id))
	return nil
}

// runKey returns the Redis key for a run
func runKey(id string) string {
	return keyPrefix + id
}

var _ ports.RunStorage = (*RunStorage)(nil)
