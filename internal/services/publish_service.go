// Package services – PublishService
//
// Publishing is asynchronous: the trigger validates, claims the publication
// row, starts a background retry loop, and returns immediately. The loop runs
// the two-step platform protocol (create a media container, then publish it)
// up to 1+MaxRetries times with a fixed delay between attempts, checkpointing
// each attempt in the database so the row always reflects the latest state.
//
// The claim is an optimistic conditional UPDATE (see repo.ClaimPublication):
// two concurrent triggers against the same publication resolve to exactly one
// retry loop. Posts may be deleted mid-publish; the loop's subsequent status
// writes match zero rows and the loop exits without effect.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/repo"
	"github.com/wyhuang/go-repurpose-backend/internal/threads"
)

// ThreadsAPI is the platform surface the publish and metrics services need.
// Satisfied by *threads.Client; tests substitute stubs.
type ThreadsAPI interface {
	CreateContainer(ctx context.Context, accessToken, threadsUserID, text string) (string, error)
	PublishContainer(ctx context.Context, accessToken, threadsUserID, containerID string) (string, error)
	FetchMetrics(ctx context.Context, accessToken, postID string) (*threads.Metrics, error)
}

// PublishService drives publications through the pending → publishing →
// published/failed lifecycle.
type PublishService struct {
	DB      *gorm.DB
	Threads ThreadsAPI

	// MaxRetries is the number of re-attempts after the first try; the loop
	// makes 1+MaxRetries attempts total. RetryDelay is the fixed pause
	// between attempts.
	MaxRetries int
	RetryDelay time.Duration

	// wait is the inter-attempt sleep, replaceable in tests.
	wait func(time.Duration)
}

// NewPublishService wires a publish service with defaults of 3 retries and a
// 5 minute delay.
func NewPublishService(db *gorm.DB, api ThreadsAPI, maxRetries int, delay time.Duration) *PublishService {
	if maxRetries < 0 {
		maxRetries = 3
	}
	if delay <= 0 {
		delay = 5 * time.Minute
	}
	return &PublishService{
		DB:         db,
		Threads:    api,
		MaxRetries: maxRetries,
		RetryDelay: delay,
		wait:       time.Sleep,
	}
}

// Publish validates and claims a publication, then starts the background
// retry loop. A nil return means the loop is running; the eventual outcome
// lands in the publication row, not in this call.
//
// Precondition failures, in evaluation order: unknown publication, wrong
// platform, terminal published state, no stored credential, expired token,
// lost claim race (another loop already owns the row).
func (s *PublishService) Publish(ctx context.Context, userID, publicationID string) error {
	tr := otel.Tracer("services/PublishService")
	ctx, span := tr.Start(ctx, "Publish",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("publication.id", publicationID),
		),
	)
	defer span.End()

	pub, err := repo.GetPublicationWithPost(ctx, s.DB, publicationID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPublicationNotFound
		}
		return err
	}
	if pub.Platform != threads.PlatformName {
		return ErrPlatformUnsupported
	}
	switch pub.Status {
	case domain.StatusPublished:
		return ErrAlreadyPublished
	case domain.StatusPublishing:
		return ErrPublishInProgress
	}

	profile, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotConnected
		}
		return err
	}
	if profile.ThreadsAccessToken == nil || *profile.ThreadsAccessToken == "" ||
		profile.ThreadsUserID == nil || *profile.ThreadsUserID == "" {
		return ErrNotConnected
	}
	if profile.ThreadsTokenExpiresAt != nil && profile.ThreadsTokenExpiresAt.Before(time.Now()) {
		return ErrTokenExpired
	}

	claimed, err := repo.ClaimPublication(ctx, s.DB, pub.ID)
	if err != nil {
		return err
	}
	if !claimed {
		// The row left pending/failed between our read and the UPDATE:
		// another trigger owns it now.
		return ErrPublishInProgress
	}

	text := domain.JoinHashtags(pub.Post.Content, pub.Hashtags)

	// Detached context: the loop outlives the HTTP request.
	go s.runLoop(context.Background(), pub.ID, *profile.ThreadsUserID, *profile.ThreadsAccessToken, text)
	return nil
}

// runLoop executes the attempt sequence against the platform, checkpointing
// every attempt and the final outcome in the publication row.
func (s *PublishService) runLoop(ctx context.Context, pubID, threadsUserID, accessToken, text string) {
	var lastErr error

	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			s.sleep(s.RetryDelay)
		}
		if err := repo.MarkAttempt(ctx, s.DB, pubID, attempt); err != nil {
			log.Warn().Err(err).Str("publication_id", pubID).Msg("attempt checkpoint failed")
		}

		postID, err := s.attempt(ctx, threadsUserID, accessToken, text)
		if err == nil {
			url := threads.PostURL(threadsUserID, postID)
			if merr := repo.MarkPublished(ctx, s.DB, pubID, postID, url, time.Now().UTC()); merr != nil {
				log.Error().Err(merr).Str("publication_id", pubID).Msg("publish finalize failed")
				return
			}
			log.Info().
				Str("publication_id", pubID).
				Str("platform_post_id", postID).
				Int("attempt", attempt).
				Msg("publication published")
			return
		}

		lastErr = err
		log.Warn().Err(err).
			Str("publication_id", pubID).
			Int("attempt", attempt).
			Int("max_retries", s.MaxRetries).
			Msg("publish attempt failed")
	}

	if merr := repo.MarkPublishFailed(ctx, s.DB, pubID, lastErr.Error(), s.MaxRetries); merr != nil {
		log.Error().Err(merr).Str("publication_id", pubID).Msg("failure finalize failed")
	}
}

// attempt runs one pass of the two-step protocol: container then publish.
func (s *PublishService) attempt(ctx context.Context, threadsUserID, accessToken, text string) (string, error) {
	containerID, err := s.Threads.CreateContainer(ctx, accessToken, threadsUserID, text)
	if err != nil {
		return "", err
	}
	return s.Threads.PublishContainer(ctx, accessToken, threadsUserID, containerID)
}

func (s *PublishService) sleep(d time.Duration) {
	if s.wait != nil {
		s.wait(d)
		return
	}
	time.Sleep(d)
}
