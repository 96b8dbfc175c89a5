package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Settings{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestStoreGet_NilWhenUnconfigured(t *testing.T) {
	store := NewStore(openTestDB(t), nil, nil)
	if got := store.Get(context.Background()); got != nil {
		t.Fatalf("expected nil before any admin save, got %+v", got)
	}
}

func TestStoreUpdateThenGet(t *testing.T) {
	store := NewStore(openTestDB(t), nil, nil)
	ctx := context.Background()

	next := &Settings{
		SystemPrompt: "You are a trade lawyer.",
		Instructions: "Cite regulations.",
		MaxTokens:    2048,
		Temperature:  0.7,
		UpdatedBy:    5,
	}
	if err := store.Update(ctx, next); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := store.Get(ctx)
	if got == nil {
		t.Fatalf("expected settings after save")
	}
	if got.SystemPrompt != "You are a trade lawyer." || got.MaxTokens != 2048 || got.Temperature != 0.7 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.UpdatedBy != 5 {
		t.Fatalf("expected updated_by to persist, got %d", got.UpdatedBy)
	}
}

func TestStoreUpdate_SingletonRow(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db, nil, nil)
	ctx := context.Background()

	if err := store.Update(ctx, &Settings{SystemPrompt: "first"}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := store.Update(ctx, &Settings{SystemPrompt: "second"}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	var count int64
	if err := db.Model(&Settings{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one settings row, got %d", count)
	}
	if got := store.Get(ctx); got == nil || got.SystemPrompt != "second" {
		t.Fatalf("expected the latest save to win, got %+v", got)
	}
}
