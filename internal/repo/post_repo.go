// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for scheduled
// posts and their publications, including the status writes that form the
// durable checkpoints of the publish state machine.
//
// Error semantics:
//   - Missing rows surface as ErrNotFound (gorm.ErrRecordNotFound).
//   - Status writes return the affected-row count where the caller needs to
//     distinguish "lost the race" or "row deleted mid-flight" from success.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
)

// CreatePostWithPublication inserts a scheduled post and its first pending
// publication in a single transaction. Either both rows exist afterwards or
// neither does; a publication insert failure rolls the post back instead of
// leaving an orphan.
func CreatePostWithPublication(ctx context.Context, db *gorm.DB, userID, sourceTitle, content, platform string) (*domain.ScheduledPost, error) {
	now := time.Now().UTC()
	post := &domain.ScheduledPost{
		ID:          uuid.NewString(),
		UserID:      userID,
		SourceTitle: sourceTitle,
		Content:     content,
		CreatedAt:   now,
	}
	pub := &domain.Publication{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    userID,
		Platform:  platform,
		Status:    domain.StatusPending,
		CreatedAt: now,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Create(pub).Error
	})
	if err != nil {
		return nil, err
	}

	post.Publications = []domain.Publication{*pub}
	return post, nil
}

// CountPosts returns the total scheduled posts owned by userID.
func CountPosts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ScheduledPost{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListPostsPage returns a page of a user's scheduled posts with their
// publications preloaded, newest first.
func ListPostsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.ScheduledPost, error) {
	var out []domain.ScheduledPost
	err := db.WithContext(ctx).
		Preload("Publications").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeletePost removes a scheduled post owned by userID. Its publications go
// with it via the FK cascade, whatever state they are in; an in-flight
// publish loop then updates zero rows and winds down on its own. Returns
// ErrNotFound when the post does not exist or is not owned by userID.
func DeletePost(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.ScheduledPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPublication fetches a publication by ID, enforcing ownership.
func GetPublication(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Publication, error) {
	var p domain.Publication
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPublicationWithPost fetches a publication with its parent post loaded.
// The publish path needs the post body alongside the publication metadata.
func GetPublicationWithPost(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Publication, error) {
	var p domain.Publication
	err := db.WithContext(ctx).
		Preload("Post").
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePublicationHashtags replaces the hashtag list of a publication.
// Permitted in any lifecycle state; this is metadata, not a transition.
// The write goes through a struct-based Updates so the hashtags column runs
// the JSON field serializer; a raw slice value would be rendered as a SQL
// row value instead.
func UpdatePublicationHashtags(ctx context.Context, db *gorm.DB, id, userID string, tags []string) (*domain.Publication, error) {
	res := db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("hashtags").
		Updates(&domain.Publication{Hashtags: tags})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetPublication(ctx, db, id, userID)
}

// ClaimPublication atomically moves a publication into publishing, but only
// from a state a trigger may legally leave (pending or failed). The status
// predicate rides inside the UPDATE, so of two concurrent triggers exactly
// one claims the row; the loser sees claimed=false. This is the optimistic
// guard that keeps a second retry loop from starting against a record that
// is already publishing.
func ClaimPublication(ctx context.Context, db *gorm.DB, id string) (claimed bool, err error) {
	res := db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("id = ? AND status IN ?", id, []string{domain.StatusPending, domain.StatusFailed}).
		Updates(map[string]any{
			"status":      domain.StatusPublishing,
			"retry_count": 0,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkAttempt records the start of a publish attempt: status publishing plus
// the attempt index as retry_count. The row is the durable checkpoint; a
// process restart resumes from whatever attempt was last recorded.
func MarkAttempt(ctx context.Context, db *gorm.DB, id string, attempt int) error {
	return db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      domain.StatusPublishing,
			"retry_count": attempt,
		}).Error
}

// MarkPublished finalizes a successful publish: terminal status, publish
// timestamp, the platform-assigned id and public URL, and a cleared error.
func MarkPublished(ctx context.Context, db *gorm.DB, id, platformPostID, platformPostURL string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            domain.StatusPublished,
			"published_at":      at.UTC(),
			"platform_post_id":  platformPostID,
			"platform_post_url": platformPostURL,
			"error_message":     nil,
		}).Error
}

// MarkPublishFailed finalizes an exhausted publish: terminal failed status
// with the last error preserved verbatim for operator diagnosis.
func MarkPublishFailed(ctx context.Context, db *gorm.DB, id, errMsg string, attempt int) error {
	return db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        domain.StatusFailed,
			"error_message": errMsg,
			"retry_count":   attempt,
		}).Error
}

// OverwriteMetrics stores freshly fetched engagement counters and the sync
// timestamp. Last write wins; previous values are not merged, which keeps
// repeated syncs idempotent.
func OverwriteMetrics(ctx context.Context, db *gorm.DB, id string, likes, comments, shares, views int, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Publication{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"likes_count":    likes,
			"comments_count": comments,
			"shares_count":   shares,
			"views_count":    views,
			"last_synced_at": at.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
