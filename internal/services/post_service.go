package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/repo"
)

// PostService manages scheduled posts and the editable parts of their
// publications (hashtags). Every scheduled post is created together with a
// pending publication row, which the publish and metrics services then
// advance.
type PostService struct {
	DB *gorm.DB

	// Platform is stamped on every new publication. Defaults to "threads".
	Platform string

	// TitleLocale selects the casing rules for derived titles; TitleMaxLen
	// caps their rune length.
	TitleLocale language.Tag
	TitleMaxLen int
}

// PostPage is one page of a user's scheduled posts.
type PostPage struct {
	Posts    []domain.ScheduledPost `json:"posts"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Total    int64                  `json:"total"`
}

// SaveOutput is one generation output selected for scheduling. Platform is
// optional; when set it must name a supported platform.
type SaveOutput struct {
	SourceTitle string `json:"source_title"`
	Content     string `json:"content"`
	Platform    string `json:"platform,omitempty"`
}

// CreateBatch persists the given outputs as scheduled posts, one pending
// publication each. Platforms are validated up front: any output naming an
// unsupported platform fails the whole batch with ErrPlatformUnsupported
// before anything is written. Past that gate items are independent: a failed
// insert skips that item and the rest proceed, mirroring the per-template
// isolation upstream. Returns the created posts and the number of items
// skipped.
func (s *PostService) CreateBatch(ctx context.Context, userID string, outputs []SaveOutput) ([]domain.ScheduledPost, int, error) {
	tr := otel.Tracer("services/PostService")
	ctx, span := tr.Start(ctx, "CreateBatch",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("outputs", len(outputs)),
		),
	)
	defer span.End()

	if len(outputs) == 0 {
		return nil, 0, ErrNoOutputs
	}

	defaultPlatform := s.Platform
	if defaultPlatform == "" {
		defaultPlatform = "threads"
	}
	for _, o := range outputs {
		if p := strings.TrimSpace(o.Platform); p != "" && p != defaultPlatform {
			return nil, 0, fmt.Errorf("%w: %q", ErrPlatformUnsupported, p)
		}
	}

	created := make([]domain.ScheduledPost, 0, len(outputs))
	skipped := 0
	for _, o := range outputs {
		content := strings.TrimSpace(o.Content)
		if content == "" {
			skipped++
			continue
		}
		title := strings.TrimSpace(o.SourceTitle)
		if title == "" {
			title = s.deriveTitle(content)
		}
		post, err := repo.CreatePostWithPublication(ctx, s.DB, userID, title, content, defaultPlatform)
		if err != nil {
			skipped++
			continue
		}
		created = append(created, *post)
	}
	span.SetAttributes(attribute.Int("created", len(created)))
	return created, skipped, nil
}

// List returns one page of the caller's scheduled posts, newest first, with
// publications preloaded.
func (s *PostService) List(ctx context.Context, userID string, page, pageSize int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	total, err := repo.CountPosts(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	posts, err := repo.ListPostsPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Page: page, PageSize: pageSize, Total: total}, nil
}

// Delete removes a scheduled post and, through the FK cascade, its
// publications. Deleting a post whose publication is mid-publish is allowed;
// the orphaned retry loop's updates then match zero rows.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	if err := repo.DeletePost(ctx, s.DB, postID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

// UpdateHashtags normalizes and replaces a publication's hashtag list. Tags
// are stored bare of duplication rules but always #-prefixed.
func (s *PostService) UpdateHashtags(ctx context.Context, userID, publicationID string, tags []string) (*domain.Publication, error) {
	pub, err := repo.UpdatePublicationHashtags(ctx, s.DB, publicationID, userID, domain.NormalizeHashtags(tags))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, err
	}
	return pub, nil
}

// deriveTitle builds a compact title from the leading words of the content,
// title-cased and clipped.
func (s *PostService) deriveTitle(content string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(content), -1)
	if len(toks) == 0 {
		return "Untitled"
	}

	caser := cases.Title(s.titleLocaleOrDefault())
	out := make([]string, 0, 8)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, caser.String(w))
		if len(out) >= 8 {
			break
		}
	}
	if len(out) == 0 {
		return "Untitled"
	}
	return s.clipTitle(strings.Join(out, " "))
}

// clipTitle truncates a derived title to the configured maximum rune length.
func (s *PostService) clipTitle(title string) string {
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		return string([]rune(title)[:max])
	}
	return title
}

func (s *PostService) titleLocaleOrDefault() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

// Unicode letters with optional trailing digits.
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// Minimal English stop-word set for compact titles.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
}
