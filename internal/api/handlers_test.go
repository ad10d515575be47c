// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/apex-learning/course-recommender/internal/config"
	"github.com/apex-learning/course-recommender/internal/recommend"
)

// mutableCatalog is an in-memory recommend.CatalogReader and Pinger.
type mutableCatalog struct {
	mu      sync.Mutex
	records []recommend.CourseRecord
	listErr error
	pingErr error
}

func (c *mutableCatalog) ListPublished(_ context.Context) ([]recommend.CourseRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]recommend.CourseRecord(nil), c.records...), nil
}

func (c *mutableCatalog) Ping(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pingErr
}

func (c *mutableCatalog) setListErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listErr = err
}

func sampleCourses() []recommend.CourseRecord {
	return []recommend.CourseRecord{
		{
			ID: "go-basics", Title: "Go Programming Basics", Category: "programming",
			Difficulty: "beginner", Tags: "go, concurrency, backend",
			Description:      "Learn Go syntax, goroutines and channels for backend services.",
			TotalEnrollments: 120, AverageRating: 4.5,
		},
		{
			ID: "go-advanced", Title: "Advanced Go Concurrency", Category: "programming",
			Difficulty: "advanced", Tags: "go, concurrency, performance",
			Description:      "Deep dive into goroutines, channels and the Go scheduler.",
			TotalEnrollments: 80, AverageRating: 4.8,
		},
		{
			ID: "py-data", Title: "Python for Data Science", Category: "data_science",
			Difficulty: "intermediate", Tags: "python, pandas, statistics",
			Description:      "Analyse data with pandas and visualise results with matplotlib.",
			TotalEnrollments: 300, AverageRating: 4.2,
		},
		{
			ID: "ml-intro", Title: "Machine Learning Foundations", Category: "data_science",
			Difficulty: "intermediate", Tags: "python, machine learning, statistics",
			Description:      "Regression, classification and model evaluation with python.",
			TotalEnrollments: 250, AverageRating: 4.6,
		},
		{
			ID: "ux-design", Title: "User Experience Design", Category: "design",
			Difficulty: "beginner", Tags: "ux, research, prototyping",
			Description:      "Interview users, sketch wireframes and test prototypes.",
			TotalEnrollments: 60, AverageRating: 4.1,
		},
	}
}

func testAPIConfig() config.APIConfig {
	return config.APIConfig{DefaultTopN: 10, MaxTopN: 50, MaxRequestBytes: 1024}
}

// newTestServer wires a real engine over the given catalog behind the full router.
func newTestServer(t *testing.T, catalog *mutableCatalog, mwCfg *ChiMiddlewareConfig) (*recommend.Engine, http.Handler) {
	t.Helper()
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), catalog, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	handler := NewHandler(engine, catalog, testAPIConfig(), "test")
	return engine, NewRouter(handler, NewChiMiddleware(mwCfg), 0).Setup()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRecommend_Success(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend", `{"course_id":"go-basics","top_n":3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[RecommendResponse](t, rec)
	if resp.Status != "success" || resp.CourseID != "go-basics" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if resp.Count != len(resp.Recommendations) || resp.Count == 0 || resp.Count > 3 {
		t.Fatalf("count = %d, recommendations = %d", resp.Count, len(resp.Recommendations))
	}
	if resp.Recommendations[0].ID != "go-advanced" {
		t.Errorf("top match = %s, want go-advanced", resp.Recommendations[0].ID)
	}
	for _, r := range resp.Recommendations {
		if r.ID == "go-basics" {
			t.Error("query course must not be recommended to itself")
		}
	}
	if resp.Fallback != "" {
		t.Errorf("fallback = %q, want empty", resp.Fallback)
	}
}

func TestRecommend_ExcludeSameCategory(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend",
		`{"course_id":"go-basics","exclude_same_category":true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[RecommendResponse](t, rec)
	for _, r := range resp.Recommendations {
		if r.Category == "programming" {
			t.Errorf("got same-category course %s", r.ID)
		}
	}
}

func TestRecommend_NotFound(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend", `{"course_id":"nope"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeBody[errorResponse](t, rec)
	if resp.Status != "error" || resp.Code != "COURSE_NOT_FOUND" {
		t.Errorf("unexpected error body: %+v", resp)
	}
}

func TestRecommend_BadRequests(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)

	tests := []struct {
		name     string
		body     string
		wantCode string
		status   int
	}{
		{"malformed json", `{"course_id":`, "INVALID_JSON", http.StatusBadRequest},
		{"missing course id", `{}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"blank course id", `{"course_id":"   "}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"negative top_n", `{"course_id":"go-basics","top_n":-1}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"top_n above max", `{"course_id":"go-basics","top_n":51}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"min_score above one", `{"course_id":"go-basics","min_score":1.5}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"negative diversity", `{"course_id":"go-basics","diversity":-0.1}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"body too large", `{"course_id":"` + strings.Repeat("x", 2048) + `"}`, "BODY_TOO_LARGE", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if resp := decodeBody[errorResponse](t, rec); resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestRecommend_EmptyCatalogFallsBackToPopular(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{}, nil)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend", `{"course_id":"go-basics"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[RecommendResponse](t, rec)
	if resp.Fallback != "popular" {
		t.Errorf("fallback = %q, want popular", resp.Fallback)
	}
	if resp.Count != 0 || len(resp.Recommendations) != 0 {
		t.Errorf("expected empty listing, got %+v", resp)
	}
}

func TestRecommend_NoVocabularyFallsBackToPopular(t *testing.T) {
	t.Parallel()

	// Every field is stop words or single letters, so nothing survives analysis.
	catalog := &mutableCatalog{records: []recommend.CourseRecord{
		{ID: "a", Title: "the and", TotalEnrollments: 5},
		{ID: "b", Title: "a b c", TotalEnrollments: 9},
	}}
	_, h := newTestServer(t, catalog, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend", `{"course_id":"a"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[RecommendResponse](t, rec)
	if resp.Fallback != "popular" || resp.Count != 2 {
		t.Fatalf("unexpected fallback response: %+v", resp)
	}
	if resp.Courses[0].ID != "b" {
		t.Errorf("first popular course = %s, want b", resp.Courses[0].ID)
	}
}

func TestRecommendText(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)

	t.Run("match", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend/text",
			`{"query":"python statistics","top_n":2}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		resp := decodeBody[TextRecommendResponse](t, rec)
		if resp.Query != "python statistics" || resp.Count == 0 || resp.Count > 2 {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if cat := resp.Recommendations[0].Category; cat != "data_science" {
			t.Errorf("top category = %s, want data_science", cat)
		}
	})

	t.Run("out of vocabulary", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend/text", `{"query":"zzzz qqqq"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		resp := decodeBody[TextRecommendResponse](t, rec)
		if resp.Count != 0 || resp.Recommendations == nil {
			t.Errorf("want empty non-null list, got %+v", resp)
		}
	})

	for _, body := range []string{`{}`, `{"query":""}`, `{"query":"   "}`} {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/recommend/text", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
			continue
		}
		if resp := decodeBody[errorResponse](t, rec); resp.Message != "Query text is required" {
			t.Errorf("%s: message = %q", body, resp.Message)
		}
	}
}

func TestPopularCourses(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)
	rec := doRequest(t, h, http.MethodGet, "/api/v1/courses/popular?top_n=2", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[PopularResponse](t, rec)
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Courses[0].ID != "py-data" || resp.Courses[1].ID != "ml-intro" {
		t.Errorf("order = %s, %s", resp.Courses[0].ID, resp.Courses[1].ID)
	}
	if resp.Courses[0].CategoryDisplay != "Data Science" {
		t.Errorf("category_display = %q", resp.Courses[0].CategoryDisplay)
	}
}

func TestCourseTerms(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/courses/go-basics/terms?top_n=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[TermsResponse](t, rec)
	if resp.CourseID != "go-basics" || len(resp.Terms) == 0 || len(resp.Terms) > 5 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	for i := 1; i < len(resp.Terms); i++ {
		if resp.Terms[i].Weight > resp.Terms[i-1].Weight {
			t.Errorf("terms not sorted by weight at %d", i)
		}
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/courses/missing/terms", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown course status = %d, want 404", rec.Code)
	}
}

func TestVocabularyAndStatus(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/recommend/vocabulary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("vocabulary status = %d", rec.Code)
	}
	vocab := decodeBody[VocabularyResponse](t, rec)
	if vocab.Count == 0 || vocab.Count != len(vocab.Terms) {
		t.Fatalf("unexpected vocabulary: count %d, terms %d", vocab.Count, len(vocab.Terms))
	}
	for i := 1; i < len(vocab.Terms); i++ {
		if vocab.Terms[i-1] >= vocab.Terms[i] {
			t.Fatalf("vocabulary not in column order at %d", i)
		}
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/recommend/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}
	st := decodeBody[StatusResponse](t, rec)
	if !st.Engine.Fitted || st.Engine.CorpusSize != 5 || st.Engine.VocabularySize != vocab.Count {
		t.Errorf("unexpected engine status: %+v", st.Engine)
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	catalog := &mutableCatalog{records: sampleCourses()}
	engine, h := newTestServer(t, catalog, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/recommend/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", rec.Code, rec.Body.String())
	}
	first := decodeBody[StatusResponse](t, rec).Engine.Version

	catalog.setListErr(errors.New("database is locked"))
	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/recommend/refresh", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("failed refresh status = %d, want 503", rec.Code)
	}
	if resp := decodeBody[errorResponse](t, rec); resp.Code != "REFRESH_FAILED" {
		t.Errorf("code = %q", resp.Code)
	}

	// The previous snapshot keeps serving.
	if got := engine.Status().Version; got != first {
		t.Errorf("version = %d, want %d", got, first)
	}
	rec = doRequest(t, h, http.MethodPost, "/api/v1/recommend", `{"course_id":"go-basics"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("recommend after failed refresh = %d", rec.Code)
	}
}

func TestAdminRateLimit(t *testing.T) {
	t.Parallel()

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitRequests = 100
	mwCfg.AdminRateLimitRequests = 1
	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, mwCfg)

	if rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/recommend/refresh", ""); rec.Code != http.StatusOK {
		t.Fatalf("first refresh = %d", rec.Code)
	}
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/recommend/refresh", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second refresh = %d, want 429", rec.Code)
	}
	if resp := decodeBody[errorResponse](t, rec); resp.Code != "RATE_LIMITED" {
		t.Errorf("code = %q", resp.Code)
	}

	// Non-admin routes still have headroom.
	if rec := doRequest(t, h, http.MethodGet, "/api/v1/recommend/status", ""); rec.Code != http.StatusOK {
		t.Errorf("status after admin limit = %d", rec.Code)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/nowhere", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d", rec.Code)
	}
	rec = doRequest(t, h, http.MethodGet, "/api/v1/recommend", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /recommend = %d, want 405", rec.Code)
	}
}

func TestRouter_SecurityHeadersAndRequestID(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, &mutableCatalog{records: sampleCourses()}, nil)
	rec := doRequest(t, h, http.MethodGet, "/api/v1/recommend/status", "")

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}
