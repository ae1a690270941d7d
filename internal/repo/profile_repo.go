// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file reads user profiles, which carry the external
// platform credential. The publish pipeline never writes profile rows.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
)

// GetProfile fetches the profile row for userID, or ErrNotFound.
func GetProfile(ctx context.Context, db *gorm.DB, userID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
