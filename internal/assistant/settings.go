package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tradebridge/legalai/internal/store/redisstore"
)

// Defaults used whenever no administrator has saved a settings row. Absence
// of configuration is a supported path, not an error.
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.3
)

// Settings is the admin-tunable generation configuration for the legal
// assistant. A single row (id=1) holds the live values.
type Settings struct {
	ID           uint64    `gorm:"primaryKey" json:"-"`
	SystemPrompt string    `gorm:"type:text" json:"system_prompt"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	MaxTokens    int       `gorm:"not null;default:0" json:"max_tokens"`
	Temperature  float64   `gorm:"not null;default:0" json:"temperature"`
	UpdatedBy    uint64    `json:"updated_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Settings) TableName() string { return "assistant_settings" }

const settingsRowID = 1

// Store reads and writes the settings row with a redis cache in front.
// The redis store may be nil; the cache is then skipped entirely.
type Store struct {
	db     *gorm.DB
	cache  *redisstore.Store
	logger *zap.Logger
}

func NewStore(db *gorm.DB, cache *redisstore.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, cache: cache, logger: logger}
}

// Get returns the current settings, or nil when none have been saved.
// Cache and DB failures both degrade to nil: a missing configuration must
// never block a chat turn.
func (s *Store) Get(ctx context.Context) *Settings {
	if s.cache != nil {
		payload, err := s.cache.GetAssistantSettings(ctx)
		if err == nil {
			var cached Settings
			if jsonErr := json.Unmarshal([]byte(payload), &cached); jsonErr == nil {
				return &cached
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("assistant settings cache read failed", zap.Error(err))
		}
	}

	var row Settings
	if err := s.db.WithContext(ctx).First(&row, settingsRowID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("assistant settings load failed", zap.Error(err))
		}
		return nil
	}

	if s.cache != nil {
		if payload, err := json.Marshal(row); err == nil {
			if err := s.cache.SetAssistantSettings(ctx, string(payload)); err != nil {
				s.logger.Warn("assistant settings cache write failed", zap.Error(err))
			}
		}
	}
	return &row
}

// Update upserts the singleton row and drops the cached copy.
func (s *Store) Update(ctx context.Context, next *Settings) error {
	next.ID = settingsRowID
	if err := s.db.WithContext(ctx).Save(next).Error; err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAssistantSettings(ctx); err != nil {
			s.logger.Warn("assistant settings cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}
