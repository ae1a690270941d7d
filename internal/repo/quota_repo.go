// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Quota
// model: month rollover and usage accounting.
//
// Both mutations here are single server-side statements on purpose. Quota
// counters are hit by concurrent requests from the same user (multiple tabs,
// devices), so a read-modify-write from the caller would lose updates. The
// conditional UPDATE forms below make the check and the write one atomic
// step the database serializes for us.
//
// Error semantics:
//   - A missing quota row means the user was never provisioned; functions
//     return ErrNotFound and callers treat it as fatal to the request.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// MonthMarker formats t as the "2006-01" month key stored on quota rows.
func MonthMarker(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// RollQuotaMonth resets the usage counter and advances the month marker in
// one conditional UPDATE. The WHERE clause carries the staleness check, so
// two concurrent callers in a fresh month cannot both reset: the second
// UPDATE matches zero rows. Calling it again in the same month is a no-op,
// which makes the rollover idempotent.
//
// It then reloads and returns the row, or ErrNotFound when the user has no
// quota row at all.
func RollQuotaMonth(ctx context.Context, db *gorm.DB, userID string, now time.Time) (*domain.Quota, error) {
	month := MonthMarker(now)

	res := db.WithContext(ctx).
		Model(&domain.Quota{}).
		Where("user_id = ? AND current_month <> ?", userID, month).
		Updates(map[string]any{
			"monthly_usage": 0,
			"current_month": month,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	return GetQuota(ctx, db, userID)
}

// IncrementQuotaUsage adds n to the user's monthly usage with a relative
// UPDATE expression. n is the number of templates that actually generated
// successfully, not the request count. No-op when n <= 0.
func IncrementQuotaUsage(ctx context.Context, db *gorm.DB, userID string, n int) error {
	if n <= 0 {
		return nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Quota{}).
		Where("user_id = ?", userID).
		Update("monthly_usage", gorm.Expr("monthly_usage + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetQuota fetches the quota row for userID, or ErrNotFound.
func GetQuota(ctx context.Context, db *gorm.DB, userID string) (*domain.Quota, error) {
	var q domain.Quota
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}
