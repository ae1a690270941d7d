// Package services – QuotaService
//
// This file implements the quota/rate gate consulted before any generation
// work happens. It answers two independent questions: has the user exhausted
// the monthly generation allowance, and is the user sending requests faster
// than the short fixed window permits.
//
// Nothing is reserved at check time. Usage is recorded after the batch, and
// only by the number of templates that actually generated successfully, so a
// failed batch never burns allowance. All counter mutations go through the
// repository's single-statement atomic forms; this service never does a
// read-modify-write on shared counters.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/repo"
)

// QuotaService gates generation requests on monthly quota and the per-user
// request window.
type QuotaService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// RateMax is the number of requests admitted per window.
	RateMax int
	// RateWindow is the fixed window length (e.g. 60s).
	RateWindow time.Duration
}

// NewQuotaService constructs a QuotaService with the given window settings.
func NewQuotaService(db *gorm.DB, rateMax int, window time.Duration) *QuotaService {
	if rateMax <= 0 {
		rateMax = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &QuotaService{DB: db, RateMax: rateMax, RateWindow: window}
}

// CheckAndRoll loads the caller's quota, rolling the month marker and
// resetting usage first when the stored month is stale. The roll is a single
// conditional UPDATE in the repository, so concurrent requests crossing a
// month boundary reset exactly once. Returns ErrQuotaNotFound when the user
// has no quota row.
func (s *QuotaService) CheckAndRoll(ctx context.Context, userID string, now time.Time) (usage, limit int, err error) {
	q, err := repo.RollQuotaMonth(ctx, s.DB, userID, now)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, 0, ErrQuotaNotFound
		}
		return 0, 0, err
	}
	return q.MonthlyUsage, q.MonthlyLimit, nil
}

// IsOverLimit reports whether usage has reached the monthly limit.
func IsOverLimit(usage, limit int) bool {
	return usage >= limit
}

// CheckRateLimit counts this request against the caller's fixed window and
// reports whether it is admitted. The increment and the window reset are one
// atomic statement server-side; of two racing requests at the boundary,
// exactly one gets the admitting count.
func (s *QuotaService) CheckRateLimit(ctx context.Context, userID string, now time.Time) (allowed bool, count int, err error) {
	count, err = repo.BumpRateWindow(ctx, s.DB, userID, s.RateWindow, now)
	if err != nil {
		return false, 0, err
	}
	return count <= s.RateMax, count, nil
}

// QuotaStatus is the read-only view of a user's monthly allowance.
type QuotaStatus struct {
	Month     string `json:"month"`
	Usage     int    `json:"usage"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// Status returns the caller's current quota standing, rolling a stale month
// marker first so the numbers always describe the current month.
func (s *QuotaService) Status(ctx context.Context, userID string, now time.Time) (*QuotaStatus, error) {
	usage, limit, err := s.CheckAndRoll(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	remaining := limit - usage
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaStatus{
		Month:     repo.MonthMarker(now),
		Usage:     usage,
		Limit:     limit,
		Remaining: remaining,
	}, nil
}

// RecordUsage adds n successful generations to the caller's monthly usage
// via an atomic relative UPDATE.
func (s *QuotaService) RecordUsage(ctx context.Context, userID string, n int) error {
	if err := repo.IncrementQuotaUsage(ctx, s.DB, userID, n); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrQuotaNotFound
		}
		return err
	}
	return nil
}
