package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/repo"
)

// MetricsService pulls engagement counters from the platform for published
// publications. Syncs are on-demand and overwrite: each run replaces all four
// counters with the platform's current values and stamps last_synced_at, so
// repeating a sync is harmless.
type MetricsService struct {
	DB      *gorm.DB
	Threads ThreadsAPI
}

// Sync fetches the platform metrics for one publication and stores them.
// Returns the publication with the fresh counters.
//
// Preconditions: the publication must exist for this user, be in the
// published state, carry a platform post id, and the user must still have a
// credential on file. The stored token is used even if expired; the platform
// rejects it with its own error, which is surfaced verbatim.
func (s *MetricsService) Sync(ctx context.Context, userID, publicationID string) (*domain.Publication, error) {
	tr := otel.Tracer("services/MetricsService")
	ctx, span := tr.Start(ctx, "Sync",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("publication.id", publicationID),
		),
	)
	defer span.End()

	pub, err := repo.GetPublication(ctx, s.DB, publicationID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, err
	}
	if pub.Status != domain.StatusPublished {
		return nil, ErrNotPublished
	}
	if pub.PlatformPostID == nil || *pub.PlatformPostID == "" {
		return nil, ErrMissingPlatformPostID
	}

	profile, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotConnected
		}
		return nil, err
	}
	if profile.ThreadsAccessToken == nil || *profile.ThreadsAccessToken == "" {
		return nil, ErrNotConnected
	}

	m, err := s.Threads.FetchMetrics(ctx, *profile.ThreadsAccessToken, *pub.PlatformPostID)
	if err != nil {
		return nil, err
	}

	// Platform naming maps onto ours: replies are comments, reposts are
	// shares.
	now := time.Now().UTC()
	if err := repo.OverwriteMetrics(ctx, s.DB, pub.ID, m.Likes, m.Replies, m.Reposts, m.Views, now); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, err
	}

	return repo.GetPublication(ctx, s.DB, publicationID, userID)
}
