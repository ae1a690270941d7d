// Package domain defines the persistence models for quotas, templates,
// scheduled posts, and publications. These types are mapped with GORM and
// form the core data layer of the content-repurposing backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Quota tracks a user's monthly generation allowance. Exactly one row exists
// per user; the month marker and usage counter are rolled atomically by the
// repository when the wall-clock month advances.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: owner; unique (one quota row per user).
//   - CurrentMonth: "2006-01" marker of the month the counter applies to.
//   - MonthlyUsage: successful generations consumed this month.
//   - MonthlyLimit: ceiling for MonthlyUsage.
type Quota struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	UserID       string    `json:"user_id"       gorm:"type:varchar(64);not null;uniqueIndex:ux_quota_user"`
	CurrentMonth string    `json:"current_month" gorm:"type:varchar(7);not null"`
	MonthlyUsage int       `json:"monthly_usage" gorm:"not null;default:0"`
	MonthlyLimit int       `json:"monthly_limit" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for Quota.
func (Quota) TableName() string { return "usage_quotas" }

// RateWindow is a per-user fixed-window request counter. The row is mutated
// only through single conditional statements so that two racing requests can
// never both observe the pre-increment count.
type RateWindow struct {
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);primaryKey"`
	WindowStart time.Time `json:"window_start" gorm:"not null"`
	Count       int       `json:"count"        gorm:"not null;default:0"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for RateWindow.
func (RateWindow) TableName() string { return "rate_windows" }

// Template is a user-owned rewrite template. The prompt is prepended to the
// submitted article when calling the text-generation engine.
type Template struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_templates"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	Prompt    string         `json:"prompt"     gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Template.
func (Template) TableName() string { return "templates" }

// GenerationOutput is the per-template result of one generation batch. It is
// returned to the caller and persisted verbatim inside a GenerationRecord;
// it is never a table of its own.
//
// Invariant: status "error" implies empty Content and a non-empty
// ErrorMessage. Empty content with no upstream error still counts as
// "success".
type GenerationOutput struct {
	TemplateID   string    `json:"template_id"`
	TemplateName string    `json:"template_name"`
	Content      string    `json:"content"`
	Status       string    `json:"status"` // OutputSuccess | OutputError
	ErrorMessage string    `json:"error_message,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Generation output statuses.
const (
	OutputSuccess = "success"
	OutputError   = "error"
)

// GenerationRecord is the history row written after each generation batch.
// Inserts are best effort: a history failure never fails the batch.
type GenerationRecord struct {
	ID        string             `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string             `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_history,priority:1"`
	Engine    string             `json:"engine"     gorm:"type:varchar(32);not null"`
	Outputs   []GenerationOutput `json:"outputs"    gorm:"type:text;serializer:json"`
	CreatedAt time.Time          `json:"created_at" gorm:"index:idx_user_history,priority:2"`
}

// TableName returns the database table name for GenerationRecord.
func (GenerationRecord) TableName() string { return "generation_history" }

// UsageLog is a best-effort analytics row per generation batch, including
// token counters summed across successful template calls only.
type UsageLog struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID        string    `json:"user_id"        gorm:"type:varchar(64);not null;index"`
	Engine        string    `json:"engine"         gorm:"type:varchar(32);not null"`
	TemplateCount int       `json:"template_count" gorm:"not null"`
	SuccessCount  int       `json:"success_count"  gorm:"not null"`
	InputTokens   int64     `json:"input_tokens"   gorm:"not null;default:0"`
	OutputTokens  int64     `json:"output_tokens"  gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName returns the database table name for UsageLog.
func (UsageLog) TableName() string { return "usage_logs" }

// ScheduledPost is one unit of rewritten content queued for delivery. Each
// post owns one or more Publications (one per target platform); deleting the
// post cascades to its publications regardless of their state.
type ScheduledPost struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);not null;index:idx_user_posts"`
	SourceTitle string    `json:"source_title" gorm:"type:varchar(255);not null"`
	Content     string    `json:"content"      gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Publications []Publication `json:"publications" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ScheduledPost.
func (ScheduledPost) TableName() string { return "scheduled_posts" }

// Publication is the platform-specific delivery record for a scheduled post
// and the entity driven by the publish state machine.
//
// Invariants:
//   - PlatformPostID / PlatformPostURL are set iff Status == StatusPublished.
//   - RetryCount never exceeds the configured maximum attempts.
//   - Status moves pending → publishing → published|failed; failed may be
//     re-entered into publishing by an operator trigger (see CanStartPublish).
type Publication struct {
	ID              string     `json:"id"                gorm:"type:char(36);primaryKey"`
	PostID          string     `json:"post_id"           gorm:"type:char(36);not null;index"`
	UserID          string     `json:"user_id"           gorm:"type:varchar(64);not null;index"`
	Platform        string     `json:"platform"          gorm:"type:varchar(32);not null"`
	Status          string     `json:"status"            gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','publishing','published','failed')"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Hashtags        []string   `json:"hashtags"          gorm:"type:text;serializer:json"`
	PlatformPostID  *string    `json:"platform_post_id,omitempty"  gorm:"type:varchar(128)"`
	PlatformPostURL *string    `json:"platform_post_url,omitempty" gorm:"type:varchar(512)"`
	LikesCount      int        `json:"likes_count"       gorm:"not null;default:0"`
	CommentsCount   int        `json:"comments_count"    gorm:"not null;default:0"`
	SharesCount     int        `json:"shares_count"      gorm:"not null;default:0"`
	ViewsCount      int        `json:"views_count"       gorm:"not null;default:0"`
	ErrorMessage    *string    `json:"error_message,omitempty" gorm:"type:text"`
	RetryCount      int        `json:"retry_count"       gorm:"not null;default:0"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Post is the owning scheduled post. Publications are cascade-deleted
	// when their post is removed, even while publishing.
	Post ScheduledPost `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Publication.
func (Publication) TableName() string { return "post_publications" }

// Profile carries a user's external platform credential. The publish pipeline
// reads these fields but never writes them; provisioning and OAuth live in a
// separate collaborator.
type Profile struct {
	UserID                string     `json:"user_id"                  gorm:"type:varchar(64);primaryKey"`
	ThreadsAccessToken    *string    `json:"-"                        gorm:"type:text"`
	ThreadsUserID         *string    `json:"threads_user_id,omitempty" gorm:"type:varchar(64)"`
	ThreadsTokenExpiresAt *time.Time `json:"threads_token_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }
