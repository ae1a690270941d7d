package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/services"
)

type stubGen struct {
	res     *services.GenerateResult
	history *services.HistoryPage
	err     error

	gotUser   string
	gotEngine string
}

func (s *stubGen) Generate(_ context.Context, userID, _ string, _ []string, engine string) (*services.GenerateResult, error) {
	s.gotUser = userID
	s.gotEngine = engine
	return s.res, s.err
}

func (s *stubGen) History(context.Context, string, int, int) (*services.HistoryPage, error) {
	return s.history, s.err
}

type stubTemplates struct {
	tpl  *domain.Template
	list []domain.Template
	err  error

	gotName   string
	gotPrompt string
}

func (s *stubTemplates) Create(_ context.Context, _, name, prompt string) (*domain.Template, error) {
	s.gotName, s.gotPrompt = name, prompt
	return s.tpl, s.err
}

func (s *stubTemplates) List(context.Context, string) ([]domain.Template, error) {
	return s.list, s.err
}

type stubQuota struct {
	status *services.QuotaStatus
	err    error
}

func (s *stubQuota) Status(context.Context, string, time.Time) (*services.QuotaStatus, error) {
	return s.status, s.err
}

type stubPosts struct {
	posts   []domain.ScheduledPost
	skipped int
	page    *services.PostPage
	pub     *domain.Publication
	err     error

	gotTags []string
}

func (s *stubPosts) CreateBatch(context.Context, string, []services.SaveOutput) ([]domain.ScheduledPost, int, error) {
	return s.posts, s.skipped, s.err
}

func (s *stubPosts) List(context.Context, string, int, int) (*services.PostPage, error) {
	return s.page, s.err
}

func (s *stubPosts) Delete(context.Context, string, string) error { return s.err }

func (s *stubPosts) UpdateHashtags(_ context.Context, _, _ string, tags []string) (*domain.Publication, error) {
	s.gotTags = tags
	return s.pub, s.err
}

type stubPublish struct {
	err error
}

func (s *stubPublish) Publish(context.Context, string, string) error { return s.err }

type stubMetrics struct {
	pub *domain.Publication
	err error
}

func (s *stubMetrics) Sync(context.Context, string, string) (*domain.Publication, error) {
	return s.pub, s.err
}

// deps bundles the handler stubs; any nil field is replaced with a zero-value
// stub so tests only mention the services they exercise.
type deps struct {
	gen     *stubGen
	tpl     *stubTemplates
	quota   *stubQuota
	posts   *stubPosts
	publish *stubPublish
	metrics *stubMetrics
}

func newRouter(d deps) *gin.Engine {
	if d.gen == nil {
		d.gen = &stubGen{}
	}
	if d.tpl == nil {
		d.tpl = &stubTemplates{}
	}
	if d.quota == nil {
		d.quota = &stubQuota{}
	}
	if d.posts == nil {
		d.posts = &stubPosts{}
	}
	if d.publish == nil {
		d.publish = &stubPublish{}
	}
	if d.metrics == nil {
		d.metrics = &stubMetrics{}
	}
	h := New(d.gen, d.tpl, d.quota, d.posts, d.publish, d.metrics)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/generate", h.Generate)
	r.GET("/history", h.ListHistory)
	r.POST("/templates", h.CreateTemplate)
	r.GET("/templates", h.ListTemplates)
	r.GET("/quota", h.GetQuota)
	r.POST("/posts", h.CreatePosts)
	r.GET("/posts", h.ListPosts)
	r.DELETE("/posts/:id", h.DeletePost)
	r.PUT("/publications/:id/hashtags", h.UpdateHashtags)
	r.POST("/publications/:id/publish", h.Publish)
	r.POST("/publications/:id/sync-metrics", h.SyncMetrics)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}

func TestGenerate_OK(t *testing.T) {
	gen := &stubGen{res: &services.GenerateResult{SuccessCount: 2, Usage: 3, Limit: 50}}
	r := newRouter(deps{gen: gen})

	w := do(r, http.MethodPost, "/generate", `{"article":"text","template_ids":["a","b"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if gen.gotUser != "u1" {
		t.Fatalf("user = %q", gen.gotUser)
	}
	// Engine defaults when omitted.
	if gen.gotEngine != "gemini" {
		t.Fatalf("engine = %q", gen.gotEngine)
	}
}

func TestGenerate_BadPayload(t *testing.T) {
	r := newRouter(deps{})

	for _, body := range []string{`{}`, `{"article":"x","template_ids":[]}`, `not json`} {
		w := do(r, http.MethodPost, "/generate", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d", body, w.Code)
		}
	}
}

func TestGenerate_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrEmptyArticle, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrInvalidTemplates, http.StatusForbidden, ErrCodeInvalidTemplates},
		{services.ErrQuotaNotFound, http.StatusForbidden, ErrCodeForbidden},
		{services.ErrRateLimited, http.StatusTooManyRequests, ErrCodeRateLimited},
	}
	for _, tc := range cases {
		r := newRouter(deps{gen: &stubGen{err: tc.err}})
		w := do(r, http.MethodPost, "/generate", `{"article":"x","template_ids":["a"]}`)
		if w.Code != tc.status {
			t.Errorf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
			continue
		}
		if e := decodeError(t, w); e.Code != tc.code {
			t.Errorf("%v: code = %q; want %q", tc.err, e.Code, tc.code)
		}
	}
}

func TestGenerate_QuotaExceededEnvelope(t *testing.T) {
	gen := &stubGen{res: &services.GenerateResult{Usage: 50, Limit: 50}, err: services.ErrQuotaExceeded}
	r := newRouter(deps{gen: gen})

	w := do(r, http.MethodPost, "/generate", `{"article":"x","template_ids":["a"]}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	e := decodeError(t, w)
	if e.Code != ErrCodeQuotaExceeded {
		t.Fatalf("code = %q", e.Code)
	}
	if e.Usage == nil || *e.Usage != 50 || e.Limit == nil || *e.Limit != 50 {
		t.Fatalf("usage/limit not carried: %s", w.Body.String())
	}
}

func TestGenerate_RateLimitedRetryAfter(t *testing.T) {
	r := newRouter(deps{gen: &stubGen{err: services.ErrRateLimited}})

	w := do(r, http.MethodPost, "/generate", `{"article":"x","template_ids":["a"]}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
}

func TestListHistory_Pagination(t *testing.T) {
	gen := &stubGen{history: &services.HistoryPage{
		Records:  []domain.GenerationRecord{{ID: "a"}, {ID: "b"}},
		Page:     1,
		PageSize: 2,
		Total:    5,
	}}
	r := newRouter(deps{gen: gen})

	w := do(r, http.MethodGet, "/history?page=1&page_size=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp ListHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("records = %d", len(resp.Records))
	}
	if resp.Pagination.TotalPages != 3 || !resp.Pagination.HasNext {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}

	r = newRouter(deps{gen: &stubGen{err: context.DeadlineExceeded}})
	if w := do(r, http.MethodGet, "/history", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("error: status = %d", w.Code)
	}
}

func TestCreateTemplate(t *testing.T) {
	tpl := &stubTemplates{tpl: &domain.Template{ID: uuid.NewString(), Name: "Tweetify"}}
	r := newRouter(deps{tpl: tpl})

	w := do(r, http.MethodPost, "/templates", `{"name":"Tweetify","prompt":"Rewrite as a tweet"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if tpl.gotName != "Tweetify" || tpl.gotPrompt != "Rewrite as a tweet" {
		t.Fatalf("passed name=%q prompt=%q", tpl.gotName, tpl.gotPrompt)
	}

	if w := do(r, http.MethodPost, "/templates", `{"name":"x"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing prompt: status = %d", w.Code)
	}

	r = newRouter(deps{tpl: &stubTemplates{err: services.ErrInvalidTemplate}})
	w = do(r, http.MethodPost, "/templates", `{"name":"  ","prompt":"p"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid: status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestListTemplates(t *testing.T) {
	tpl := &stubTemplates{list: []domain.Template{{ID: "t1", Name: "A"}, {ID: "t2", Name: "B"}}}
	r := newRouter(deps{tpl: tpl})

	w := do(r, http.MethodGet, "/templates", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []domain.Template
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" {
		t.Fatalf("templates = %+v", got)
	}

	r = newRouter(deps{tpl: &stubTemplates{err: context.DeadlineExceeded}})
	if w := do(r, http.MethodGet, "/templates", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("error: status = %d", w.Code)
	}
}

func TestGetQuota(t *testing.T) {
	r := newRouter(deps{quota: &stubQuota{status: &services.QuotaStatus{
		Month:     "2026-08",
		Usage:     12,
		Limit:     50,
		Remaining: 38,
	}}})

	w := do(r, http.MethodGet, "/quota", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var got services.QuotaStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Month != "2026-08" || got.Remaining != 38 {
		t.Fatalf("status = %+v", got)
	}

	r = newRouter(deps{quota: &stubQuota{err: services.ErrQuotaNotFound}})
	w = do(r, http.MethodGet, "/quota", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("missing quota: status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeForbidden {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestCreatePosts(t *testing.T) {
	posts := &stubPosts{posts: []domain.ScheduledPost{{ID: uuid.NewString()}}, skipped: 1}
	r := newRouter(deps{posts: posts})

	w := do(r, http.MethodPost, "/posts", `{"outputs":[{"content":"body"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp CreatePostsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Posts) != 1 || resp.Skipped != 1 {
		t.Fatalf("resp = %+v", resp)
	}

	if w := do(r, http.MethodPost, "/posts", `{"outputs":[]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty outputs: status = %d", w.Code)
	}

	// An unsupported per-output platform is the caller's mistake, not ours.
	r = newRouter(deps{posts: &stubPosts{err: services.ErrPlatformUnsupported}})
	w = do(r, http.MethodPost, "/posts", `{"outputs":[{"content":"body","platform":"mastodon"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unsupported platform: status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestListPosts_Pagination(t *testing.T) {
	posts := &stubPosts{page: &services.PostPage{
		Posts:    []domain.ScheduledPost{{ID: "a"}, {ID: "b"}},
		Page:     1,
		PageSize: 2,
		Total:    5,
	}}
	r := newRouter(deps{posts: posts})

	w := do(r, http.MethodGet, "/posts?page=1&page_size=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ListPostsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Pagination.TotalPages != 3 || !resp.Pagination.HasNext {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}
}

func TestDeletePost(t *testing.T) {
	r := newRouter(deps{})

	if w := do(r, http.MethodDelete, "/posts/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status = %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/posts/"+uuid.NewString(), ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}

	r = newRouter(deps{posts: &stubPosts{err: services.ErrPostNotFound}})
	if w := do(r, http.MethodDelete, "/posts/"+uuid.NewString(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing: status = %d", w.Code)
	}
}

func TestUpdateHashtags(t *testing.T) {
	posts := &stubPosts{pub: &domain.Publication{ID: uuid.NewString(), Hashtags: []string{"#ai"}}}
	r := newRouter(deps{posts: posts})

	w := do(r, http.MethodPut, "/publications/"+uuid.NewString()+"/hashtags", `{"hashtags":["ai"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if len(posts.gotTags) != 1 || posts.gotTags[0] != "ai" {
		t.Fatalf("tags passed = %v", posts.gotTags)
	}

	r = newRouter(deps{posts: &stubPosts{err: services.ErrPublicationNotFound}})
	w = do(r, http.MethodPut, "/publications/"+uuid.NewString()+"/hashtags", `{"hashtags":["ai"]}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing: status = %d", w.Code)
	}
}

func TestPublish_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{nil, http.StatusAccepted, ""},
		{services.ErrPublicationNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrPlatformUnsupported, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrNotConnected, http.StatusBadRequest, ErrCodeNotConnected},
		{services.ErrTokenExpired, http.StatusBadRequest, ErrCodeTokenExpired},
		{services.ErrAlreadyPublished, http.StatusConflict, ErrCodeConflict},
		{services.ErrPublishInProgress, http.StatusConflict, ErrCodeConflict},
	}
	for _, tc := range cases {
		r := newRouter(deps{publish: &stubPublish{err: tc.err}})
		w := do(r, http.MethodPost, "/publications/"+uuid.NewString()+"/publish", "")
		if w.Code != tc.status {
			t.Errorf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
			continue
		}
		if tc.code != "" {
			if e := decodeError(t, w); e.Code != tc.code {
				t.Errorf("%v: code = %q; want %q", tc.err, e.Code, tc.code)
			}
		}
	}
}

func TestPublish_AcceptedBody(t *testing.T) {
	r := newRouter(deps{})
	id := uuid.NewString()

	w := do(r, http.MethodPost, "/publications/"+id+"/publish", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	var resp PublishAccepted
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PublicationID != id || resp.Status != "publishing" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestSyncMetrics_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrPublicationNotFound, http.StatusNotFound},
		{services.ErrNotPublished, http.StatusConflict},
		{services.ErrMissingPlatformPostID, http.StatusConflict},
		{services.ErrNotConnected, http.StatusBadRequest},
	}
	for _, tc := range cases {
		r := newRouter(deps{metrics: &stubMetrics{err: tc.err}})
		w := do(r, http.MethodPost, "/publications/"+uuid.NewString()+"/sync-metrics", "")
		if w.Code != tc.status {
			t.Errorf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
		}
	}

	pub := &domain.Publication{ID: uuid.NewString(), Status: domain.StatusPublished, LikesCount: 5}
	r := newRouter(deps{metrics: &stubMetrics{pub: pub}})
	w := do(r, http.MethodPost, "/publications/"+pub.ID+"/sync-metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got domain.Publication
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.LikesCount != 5 {
		t.Fatalf("likes = %d", got.LikesCount)
	}
}
