// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for rewrite
// templates.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
)

// CreateTemplate inserts a new rewrite template owned by userID.
func CreateTemplate(ctx context.Context, db *gorm.DB, userID, name, prompt string) (*domain.Template, error) {
	t := &domain.Template{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListTemplatesByIDs returns the subset of ids that exist and belong to
// userID. Callers compare len(result) against len(ids) to detect foreign or
// missing template references; this lookup runs before any quota state is
// touched.
func ListTemplatesByIDs(ctx context.Context, db *gorm.DB, userID string, ids []string) ([]domain.Template, error) {
	if len(ids) == 0 {
		return []domain.Template{}, nil
	}
	var out []domain.Template
	err := db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&out).Error
	return out, err
}

// ListTemplates returns all templates for a user, newest first.
func ListTemplates(ctx context.Context, db *gorm.DB, userID string) ([]domain.Template, error) {
	var out []domain.Template
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
