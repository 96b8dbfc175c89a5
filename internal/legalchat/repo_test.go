package legalchat

import (
	"context"
	"testing"

	"github.com/tradebridge/legalai/internal/common"
)

func newTestJob(t *testing.T, userID uint64, sessionID, key string) *Job {
	t.Helper()
	id, err := common.NewULID()
	if err != nil {
		t.Fatalf("new ulid: %v", err)
	}
	job := &Job{
		ID:        id,
		UserID:    userID,
		SessionID: sessionID,
		Prompt:    "What tariff applies?",
		Status:    JobQueued,
	}
	if key != "" {
		job.IdempotencyKey = &key
	}
	return job
}

func TestCreateJobOrGetExisting_Idempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	first := newTestJob(t, 1, "sess-a", "req-1")
	got, created, err := repo.CreateJobOrGetExisting(ctx, first)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Fatalf("first call must create")
	}

	dup := newTestJob(t, 1, "sess-a", "req-1")
	got2, created2, err := repo.CreateJobOrGetExisting(ctx, dup)
	if err != nil {
		t.Fatalf("duplicate create: %v", err)
	}
	if created2 {
		t.Fatalf("duplicate key must not create a second job")
	}
	if got2.ID != got.ID {
		t.Fatalf("expected the original job back, got %q want %q", got2.ID, got.ID)
	}

	// same key under a different user is a distinct job
	other := newTestJob(t, 2, "sess-b", "req-1")
	_, created3, err := repo.CreateJobOrGetExisting(ctx, other)
	if err != nil {
		t.Fatalf("other-user create: %v", err)
	}
	if !created3 {
		t.Fatalf("idempotency keys are scoped per user")
	}
}

func TestCreateJobOrGetExisting_NoKeyAlwaysCreates(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		job := newTestJob(t, 1, "sess-a", "")
		_, created, err := repo.CreateJobOrGetExisting(ctx, job)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if !created {
			t.Fatalf("keyless jobs must always create")
		}
	}
}

func TestJobStatusTransitions(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	job := newTestJob(t, 1, "sess-a", "")
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateJobStatusRunning(ctx, job.ID); err != nil {
		t.Fatalf("mark running: %v", err)
	}
	got, err := repo.GetJobByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != JobRunning {
		t.Fatalf("expected running, got %q", got.Status)
	}

	if err := repo.MarkJobSucceeded(ctx, job.ID, 42); err != nil {
		t.Fatalf("mark succeeded: %v", err)
	}
	got, err = repo.GetJobByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != JobSucceeded {
		t.Fatalf("expected succeeded, got %q", got.Status)
	}
	if got.ResultMessageID == nil || *got.ResultMessageID != 42 {
		t.Fatalf("expected result message id 42, got %v", got.ResultMessageID)
	}
	if got.Error != nil {
		t.Fatalf("succeeded job must not carry an error")
	}
}

func TestUpdateJobStatusRunning_OnlyFromQueued(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	job := newTestJob(t, 1, "sess-a", "")
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.MarkJobFailed(ctx, job.ID, "boom"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	// a late worker pickup must not resurrect a finished job
	if err := repo.UpdateJobStatusRunning(ctx, job.ID); err != nil {
		t.Fatalf("mark running: %v", err)
	}
	got, err := repo.GetJobByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != JobFailed {
		t.Fatalf("expected failed to stick, got %q", got.Status)
	}
	if got.Error == nil || *got.Error != "boom" {
		t.Fatalf("expected error message to persist, got %v", got.Error)
	}
}
