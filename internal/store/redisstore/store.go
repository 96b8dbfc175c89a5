package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	captchaTTL  = 10 * time.Minute
	settingsTTL = 5 * time.Minute

	settingsKey = "assistant:settings"
)

type Store struct {
	Client *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{Client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func captchaKey(email string) string { return "captcha:" + email }

func (s *Store) SetCaptcha(ctx context.Context, email, code string) error {
	return s.Client.Set(ctx, captchaKey(email), code, captchaTTL).Err()
}

func (s *Store) GetCaptcha(ctx context.Context, email string) (string, error) {
	return s.Client.Get(ctx, captchaKey(email)).Result()
}

func (s *Store) DeleteCaptcha(ctx context.Context, email string) error {
	return s.Client.Del(ctx, captchaKey(email)).Err()
}

// Assistant settings cache. The DB row is the source of truth; this is a
// cache-aside copy serialized by the assistant package.

func (s *Store) GetAssistantSettings(ctx context.Context) (string, error) {
	return s.Client.Get(ctx, settingsKey).Result()
}

func (s *Store) SetAssistantSettings(ctx context.Context, payload string) error {
	return s.Client.Set(ctx, settingsKey, payload, settingsTTL).Err()
}

func (s *Store) InvalidateAssistantSettings(ctx context.Context) error {
	return s.Client.Del(ctx, settingsKey).Err()
}
