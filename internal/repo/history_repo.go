// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file persists the generation history and usage-log
// side records. Both are best-effort: the service layer logs and swallows
// failures here rather than failing the generation batch.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
)

// CreateGenerationRecord stores the verbatim outputs of one generation batch
// under the requesting user.
func CreateGenerationRecord(ctx context.Context, db *gorm.DB, userID, engine string, outputs []domain.GenerationOutput, at time.Time) (*domain.GenerationRecord, error) {
	rec := &domain.GenerationRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Engine:    engine,
		Outputs:   outputs,
		CreatedAt: at.UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateUsageLog records batch-level analytics: how many templates were
// requested, how many succeeded, and the token counters summed across the
// successful calls.
func CreateUsageLog(ctx context.Context, db *gorm.DB, log *domain.UsageLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(log).Error
}

// CountHistory returns the total history rows for pagination.
func CountHistory(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.GenerationRecord{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListHistoryPage returns a page of a user's generation history, newest
// first. The caller computes offset and limit.
func ListHistoryPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.GenerationRecord, error) {
	var out []domain.GenerationRecord
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
