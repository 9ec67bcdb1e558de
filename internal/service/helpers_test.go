package service

import (
	"path/filepath"
	"testing"

	"fifa-tracker/internal/config"
	"fifa-tracker/internal/repository"
	"fifa-tracker/internal/tombstone"

	"github.com/rs/zerolog"
)

type testEnv struct {
	store      *repository.MemoryStore
	tombstones *tombstone.Set
	stats      *StatsService
	matches    *MatchService
	users      *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zerolog.Nop()
	store := repository.NewMemoryStore()
	cfg := &config.Config{TombstonePath: filepath.Join(t.TempDir(), "deleted_matches.json")}
	tombstones := tombstone.New(cfg, log)

	stats := NewStatsService(store, store, tombstones, log)
	return &testEnv{
		store:      store,
		tombstones: tombstones,
		stats:      stats,
		matches:    NewMatchService(store, stats, tombstones, log),
		users:      NewUserService(store, log),
	}
}
