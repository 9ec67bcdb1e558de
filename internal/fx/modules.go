package fx

import (
	"database/sql"

	"fifa-tracker/internal/auth"
	"fifa-tracker/internal/config"
	"fifa-tracker/internal/database"
	"fifa-tracker/internal/logger"
	"fifa-tracker/internal/repository"
	"fifa-tracker/internal/server"
	"fifa-tracker/internal/service"
	"fifa-tracker/internal/tombstone"
	"fifa-tracker/internal/worker"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideUserStore(sqlDB *sql.DB, mem *repository.MemoryStore, log zerolog.Logger) repository.UserStore {
	return repository.NewFailoverUserStore(repository.NewUserRepository(sqlDB, log), mem, log)
}

func ProvideMatchStore(sqlDB *sql.DB, mem *repository.MemoryStore, log zerolog.Logger) repository.MatchStore {
	return repository.NewFailoverMatchStore(repository.NewMatchRepository(sqlDB, log), mem, log)
}

func ProvideStatsStore(sqlDB *sql.DB, mem *repository.MemoryStore, log zerolog.Logger) repository.StatsStore {
	return repository.NewFailoverStatsStore(repository.NewStatsRepository(sqlDB, log), mem, log)
}

func ProvideVerifier(cfg *config.Config) auth.Verifier {
	return auth.NewProviderClient(cfg)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(tombstone.New),
	// stores: sqlite primary with in-memory failover
	fx.Provide(repository.NewMemoryStore),
	fx.Provide(ProvideUserStore),
	fx.Provide(ProvideMatchStore),
	fx.Provide(ProvideStatsStore),
	// auth bridge
	fx.Provide(ProvideVerifier),
	fx.Provide(auth.NewService),
	// svc
	fx.Provide(service.NewUserService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewMatchService),
	// background reconciliation
	fx.Provide(worker.NewReconciler),
	// server
	fx.Provide(server.New),
)
