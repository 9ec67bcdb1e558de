package tombstone

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"fifa-tracker/internal/config"

	"github.com/rs/zerolog"
)

// Set records match ids that must be treated as deleted regardless of
// whether the backend row was actually removed. It is persisted to a
// local JSON file so the ids survive a restart; every read path filters
// through it before returning matches to callers.
type Set struct {
	mu     sync.RWMutex
	ids    map[int64]struct{}
	path   string
	logger zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) *Set {
	s := &Set{
		ids:    make(map[int64]struct{}),
		path:   cfg.TombstonePath,
		logger: logger,
	}
	s.load()
	return s
}

func (s *Set) load() {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to read tombstone file")
		return
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to parse tombstone file")
		return
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.logger.Info().Int("count", len(ids)).Str("path", s.path).Msg("loaded deleted match ids")
}

// Add tombstones the id and persists the set immediately, before any
// network call a caller may make: the id must stay hidden even if every
// subsequent deletion attempt fails.
func (s *Set) Add(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids[id] = struct{}{}
	s.persistLocked()
}

func (s *Set) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ids[id]
	return ok
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ids)
}

// Clear wipes the set and its persisted copy. Administrative escape
// hatch only.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make(map[int64]struct{})
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to remove tombstone file")
	}
	s.logger.Info().Msg("cleared all deleted match ids")
}

// persistLocked writes the set as a JSON array. A write failure is
// logged but not surfaced: the in-process set still hides the id for
// the lifetime of this process.
func (s *Set) persistLocked() {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode tombstone set")
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to persist tombstone set")
		return
	}
	s.logger.Debug().Int("count", len(ids)).Str("path", s.path).Msg("persisted deleted match ids")
}
