// Package services – GenerationService
//
// This file implements the generation orchestrator. One request fans an
// article out across N rewrite templates; each template call is an isolated
// task whose failure becomes an error-status output for that template only,
// never a batch abort. The defining property is partial success: the caller
// always gets one output per requested template.
//
// Ordering matters and is deliberate: template validation runs strictly
// before any quota state is consulted, so an invalid template id can never
// consume or even roll quota. Usage is recorded after the batch by the count
// of templates that succeeded. History and usage-log inserts are best-effort
// side records — logged and swallowed on failure.
//
// Observability: Generate is OpenTelemetry-instrumented; spans include the
// engine, template count, and success count.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/generation"
	"github.com/wyhuang/go-repurpose-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EngineResolver maps an engine selector to a ready client. Implemented by
// generation.Resolver; tests substitute stubs.
type EngineResolver interface {
	Resolve(ctx context.Context, name string) (generation.Engine, error)
}

// GenerateResult is the outcome of one generation batch. Usage and Limit are
// populated whenever quota was consulted, including on ErrQuotaExceeded, so
// handlers can render the precise counts.
type GenerateResult struct {
	Outputs      []domain.GenerationOutput `json:"outputs"`
	SuccessCount int                       `json:"success_count"`
	InputTokens  int64                     `json:"input_tokens"`
	OutputTokens int64                     `json:"output_tokens"`
	Usage        int                       `json:"usage"`
	Limit        int                       `json:"limit"`
}

// GenerationService coordinates template validation, the quota/rate gate,
// and the per-template engine fan-out.
type GenerationService struct {
	DB      *gorm.DB
	Quota   *QuotaService
	Engines EngineResolver

	// MaxArticleRunes caps accepted article length; 0 disables the check.
	MaxArticleRunes int
}

// Generate runs one batch: article × templateIDs on the selected engine.
//
// Fatal (whole-request) failures, in evaluation order: empty article or
// template list, unknown/unconfigured engine, invalid template ids, rate
// window full, quota missing or exhausted. After the gate passes, per-item
// failures only mark their own output.
func (s *GenerationService) Generate(ctx context.Context, userID, article string, templateIDs []string, engineName string) (*GenerateResult, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("engine", engineName),
			attribute.Int("templates", len(templateIDs)),
		),
	)
	defer span.End()

	article = strings.TrimSpace(article)
	if article == "" {
		return nil, ErrEmptyArticle
	}
	if len(templateIDs) == 0 {
		return nil, ErrNoTemplates
	}
	if s.MaxArticleRunes > 0 && len([]rune(article)) > s.MaxArticleRunes {
		return nil, ErrArticleTooLong
	}

	// Resolve the engine up front: a bad selector is a caller configuration
	// error and rejects the batch before any template is attempted.
	engine, err := s.Engines.Resolve(ctx, engineName)
	if err != nil {
		return nil, err
	}

	// Validate templates before quota. Any unknown or foreign id fails the
	// request without touching quota state.
	templates, err := repo.ListTemplatesByIDs(ctx, s.DB, userID, templateIDs)
	if err != nil {
		return nil, err
	}
	if len(templates) != len(templateIDs) {
		return nil, ErrInvalidTemplates
	}

	now := time.Now().UTC()

	// Short-window rate gate.
	allowed, _, err := s.Quota.CheckRateLimit(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	// Monthly quota gate. Nothing is reserved here; usage is recorded after
	// the batch by actual success count.
	usage, limit, err := s.Quota.CheckAndRoll(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	res := &GenerateResult{Usage: usage, Limit: limit}
	if IsOverLimit(usage, limit) {
		return res, ErrQuotaExceeded
	}

	// Fan out. One timestamp for the whole batch; outputs land at the index
	// of their template, so the result list keeps a stable association with
	// the request order.
	res.Outputs, res.InputTokens, res.OutputTokens = s.fanOut(ctx, engine, article, orderTemplates(templates, templateIDs), now)

	for _, o := range res.Outputs {
		if o.Status == domain.OutputSuccess {
			res.SuccessCount++
		}
	}
	span.SetAttributes(attribute.Int("success_count", res.SuccessCount))

	// Best-effort history record: never fails the batch.
	if _, herr := repo.CreateGenerationRecord(ctx, s.DB, userID, engineName, res.Outputs, now); herr != nil {
		log.Warn().Err(herr).Str("user_id", userID).Msg("history insert failed")
	}

	// Count only actual successes against the quota.
	if res.SuccessCount > 0 {
		if uerr := s.Quota.RecordUsage(ctx, userID, res.SuccessCount); uerr != nil {
			log.Error().Err(uerr).Str("user_id", userID).Msg("quota increment failed")
		} else {
			res.Usage += res.SuccessCount
		}
	}

	// Best-effort analytics row.
	ulog := &domain.UsageLog{
		UserID:        userID,
		Engine:        engineName,
		TemplateCount: len(templateIDs),
		SuccessCount:  res.SuccessCount,
		InputTokens:   res.InputTokens,
		OutputTokens:  res.OutputTokens,
		CreatedAt:     now,
	}
	if uerr := repo.CreateUsageLog(ctx, s.DB, ulog); uerr != nil {
		log.Warn().Err(uerr).Str("user_id", userID).Msg("usage log insert failed")
	}

	return res, nil
}

// HistoryPage is one page of a user's generation history, newest first.
type HistoryPage struct {
	Records  []domain.GenerationRecord `json:"records"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	Total    int64                     `json:"total"`
}

// History returns a page of the caller's past generation batches.
func (s *GenerationService) History(ctx context.Context, userID string, page, pageSize int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	total, err := repo.CountHistory(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	records, err := repo.ListHistoryPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Records: records, Page: page, PageSize: pageSize, Total: total}, nil
}

// fanOut runs one engine call per template and joins the tagged results.
// Calls run concurrently; each failure is captured into its own output and
// token counters are summed across successes only.
func (s *GenerationService) fanOut(ctx context.Context, engine generation.Engine, article string, templates []domain.Template, at time.Time) ([]domain.GenerationOutput, int64, int64) {
	outputs := make([]domain.GenerationOutput, len(templates))

	var (
		wg sync.WaitGroup
		mu sync.Mutex // guards the token counters below
	)
	var inTokens, outTokens int64

	for i, tpl := range templates {
		wg.Add(1)
		go func(i int, tpl domain.Template) {
			defer wg.Done()

			out := domain.GenerationOutput{
				TemplateID:   tpl.ID,
				TemplateName: tpl.Name,
				GeneratedAt:  at,
			}

			r, err := engine.Generate(ctx, tpl.Prompt, article)
			if err != nil {
				// Isolated: this template failed, the batch goes on.
				out.Status = domain.OutputError
				out.ErrorMessage = err.Error()
			} else {
				// Empty text without an error still counts as success.
				out.Status = domain.OutputSuccess
				out.Content = r.Text
				mu.Lock()
				inTokens += r.InputTokens
				outTokens += r.OutputTokens
				mu.Unlock()
			}
			outputs[i] = out
		}(i, tpl)
	}
	wg.Wait()

	return outputs, inTokens, outTokens
}

// orderTemplates re-sorts the loaded templates into the order the caller
// requested them, so output[i] corresponds to templateIDs[i].
func orderTemplates(templates []domain.Template, ids []string) []domain.Template {
	byID := make(map[string]domain.Template, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	out := make([]domain.Template, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
