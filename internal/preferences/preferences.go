// Package preferences persists per-user display preferences in Redis. It is
// the side-effecting collaborator of the pure pagination engine: list views
// read the stored page size here and never through ambient globals.
package preferences

import (
	"context"
	"fmt"
	"strconv"

	"agrivest-backend/internal/pagination"

	"github.com/redis/go-redis/v9"
)

const pageSizeKeyPrefix = "prefs:page_size:"

// MaxPageSize bounds stored preferences to keep list payloads sane.
const MaxPageSize = 100

type Store struct {
	Rdb     *redis.Client
	Default int
}

func (s *Store) defaultSize() int {
	if s.Default > 0 {
		return s.Default
	}
	return pagination.DefaultPageSize
}

// PageSize returns the user's stored page size, or the default when unset.
func (s *Store) PageSize(ctx context.Context, userID string) int {
	if userID == "" {
		return s.defaultSize()
	}
	v, err := s.Rdb.Get(ctx, pageSizeKeyPrefix+userID).Result()
	if err != nil {
		return s.defaultSize()
	}
	size, err := strconv.Atoi(v)
	if err != nil || size <= 0 || size > MaxPageSize {
		return s.defaultSize()
	}
	return size
}

// SetPageSize stores the user's page size preference.
func (s *Store) SetPageSize(ctx context.Context, userID string, size int) error {
	if userID == "" {
		return fmt.Errorf("missing user id")
	}
	if size <= 0 || size > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", MaxPageSize)
	}
	return s.Rdb.Set(ctx, pageSizeKeyPrefix+userID, strconv.Itoa(size), 0).Err()
}
