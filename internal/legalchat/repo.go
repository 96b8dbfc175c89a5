package legalchat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateSession(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repo) GetSessionBySessionID(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns a user's sessions, most recently updated first.
func (r *Repo) ListSessions(ctx context.Context, userID uint64) ([]Session, error) {
	var sessions []Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// InsertTurn stores the two rows of one turn with a shared timestamp and
// bumps the session's message counters. The rows are not written in one
// transaction: a partial pair is tolerated by contract, so each failure is
// collected and the rest of the write still proceeds.
func (r *Repo) InsertTurn(ctx context.Context, userRow, assistantRow *Message, ts time.Time) error {
	userRow.CreatedAt = ts
	assistantRow.CreatedAt = ts

	var errs []error
	inserted := 0
	if err := r.db.WithContext(ctx).Create(userRow).Error; err != nil {
		errs = append(errs, fmt.Errorf("insert user row: %w", err))
	} else {
		inserted++
	}
	if err := r.db.WithContext(ctx).Create(assistantRow).Error; err != nil {
		errs = append(errs, fmt.Errorf("insert assistant row: %w", err))
	} else {
		inserted++
	}

	if inserted > 0 {
		if err := r.db.WithContext(ctx).Model(&Session{}).
			Where("session_id = ?", userRow.SessionID).
			Updates(map[string]any{
				"message_count":   gorm.Expr("message_count + ?", inserted),
				"last_message_at": ts,
			}).Error; err != nil {
			errs = append(errs, fmt.Errorf("bump session counters: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ListHistoryAsc returns every message of a (user, session) pair in
// chronological insertion order.
func (r *Repo) ListHistoryAsc(ctx context.Context, userID uint64, sessionID string) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListRecentMessagesDesc returns the most recent messages newest first.
// Callers reverse before display.
func (r *Repo) ListRecentMessagesDesc(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 5
	}
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListContextFacts returns a session's facts, most important first.
func (r *Repo) ListContextFacts(ctx context.Context, sessionID string) ([]ContextFact, error) {
	var facts []ContextFact
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("importance DESC").
		Find(&facts).Error; err != nil {
		return nil, err
	}
	return facts, nil
}

// UpsertContextFact writes a fact keyed on (session_id, context_key). A
// later write overwrites the previous value instead of accumulating rows.
func (r *Repo) UpsertContextFact(ctx context.Context, f *ContextFact) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "context_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"context_value", "context_type", "importance", "updated_at",
		}),
	}).Create(f).Error
}

// Job CRUD

func (r *Repo) CreateJob(ctx context.Context, job *Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) UpdateJobStatusRunning(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id string, assistantMsgID uint64) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            JobSucceeded,
			"result_message_id": assistantMsgID,
			"error":             nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            JobFailed,
			"error":             errMsg,
			"result_message_id": nil,
		}).Error
}

func (r *Repo) GetJobByUserAndIdempotencyKey(ctx context.Context, userID uint64, key string) (*Job, error) {
	var job Job
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJobOrGetExisting tries to create a job, but if (user_id,
// idempotency_key) already exists it returns the existing job instead.
func (r *Repo) CreateJobOrGetExisting(ctx context.Context, job *Job) (*Job, bool, error) {
	if job.IdempotencyKey == nil || *job.IdempotencyKey == "" {
		job.IdempotencyKey = nil
		if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
			return nil, false, err
		}
		return job, true, nil
	}

	err := r.db.WithContext(ctx).Create(job).Error
	if err == nil {
		return job, true, nil
	}

	existing, getErr := r.GetJobByUserAndIdempotencyKey(ctx, job.UserID, *job.IdempotencyKey)
	if getErr == nil {
		return existing, false, nil
	}

	if errors.Is(getErr, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	return nil, false, getErr
}
