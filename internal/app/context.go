package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/gheider394-beep/2-sub000/internal/cache"
	"github.com/gheider394-beep/2-sub000/internal/notify"
	"github.com/gheider394-beep/2-sub000/internal/session"
)

// AppContext holds shared dependencies (DB, Redis, Logger, session guard,
// notification dispatcher).
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Sessions   *session.Guard
	Notifier   notify.Dispatcher
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, sessions *session.Guard, notifier notify.Dispatcher) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Sessions:   sessions,
		Notifier:   notifier,
	}
}
