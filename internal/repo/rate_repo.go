// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file maintains the per-user fixed-window request
// counter behind the domain rate limit.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// BumpRateWindow counts the current request against the user's fixed rate
// window and returns the post-increment count.
//
// The whole operation is one upsert: insert a fresh window at count 1, or —
// on conflict — either restart the window (when the stored window has
// elapsed) or increment the counter in place. The classic check-then-act
// race between two requests from the same user is closed because the CASE
// expressions evaluate inside the single statement; the admission decision
// is made on the returned count, never on a value read beforehand.
func BumpRateWindow(ctx context.Context, db *gorm.DB, userID string, window time.Duration, now time.Time) (count int, err error) {
	now = now.UTC()
	cutoff := now.Add(-window)

	err = db.WithContext(ctx).Raw(`
		INSERT INTO rate_windows (user_id, window_start, count, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			count        = CASE WHEN rate_windows.window_start <= ? THEN 1 ELSE rate_windows.count + 1 END,
			window_start = CASE WHEN rate_windows.window_start <= ? THEN excluded.window_start ELSE rate_windows.window_start END,
			updated_at   = excluded.updated_at
		RETURNING count`,
		userID, now, now, cutoff, cutoff,
	).Scan(&count).Error
	return count, err
}
