// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/soundhub-friends/internal/database"
	"github.com/tomtom215/soundhub-friends/internal/models"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

var (
	userA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	userB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	userC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	userD = uuid.MustParse("00000000-0000-0000-0000-00000000000d")
)

type staticSource struct {
	snapshot recommend.PreferenceSnapshot
	err      error
}

func (s staticSource) FavoriteGenresByUser(context.Context) (recommend.PreferenceSnapshot, error) {
	return s.snapshot, s.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func scenario() recommend.PreferenceSnapshot {
	return recommend.PreferenceSnapshot{
		{UserID: userA, GenreIDs: []int{1, 2}},
		{UserID: userB, GenreIDs: []int{1, 2}},
		{UserID: userC, GenreIDs: []int{3}},
		{UserID: userD, GenreIDs: []int{1}},
	}
}

func newTestServer(t *testing.T, source recommend.SnapshotSource, store Pinger) http.Handler {
	t.Helper()
	cfg := recommend.Config{NeighboursDefault: 5, MaxNeighbours: 10, RequestTimeout: time.Second}
	svc := recommend.NewService(source, cfg, zerolog.Nop(), nil)
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	return NewRouter(NewHandler(svc, store), NewChiMiddleware(mw)).Setup()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoot(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	rec := do(t, h, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if got := rec.Body.String(); got != "<h1>Everything is good!</h1>" {
		t.Errorf("body = %q", got)
	}
}

func TestLegacyRecommend(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	rec := do(t, h, http.MethodGet, "/recommend/"+userA.String(), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var got []uuid.UUID
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("body is not a UUID array: %v", err)
	}
	// k=5 is clamped to 4 rows; the target is dropped.
	want := []uuid.UUID{userB, userD, userC}
	if len(got) != len(want) {
		t.Fatalf("neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbors[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"canceled", fmt.Errorf("load preference snapshot: %w", context.Canceled), http.StatusServiceUnavailable, CodeCanceled},
		{"deadline", fmt.Errorf("load preference snapshot: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, CodeServiceUnavailable},
		{"store", &database.StoreError{Op: "favorite_genres", Err: errors.New("refused")}, http.StatusInternalServerError, CodeDatabase},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got.Status != tt.wantStatus || got.Code != tt.wantCode {
				t.Errorf("ClassifyError() = %d %s, want %d %s", got.Status, got.Code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestLegacyRecommend_Errors(t *testing.T) {
	unknown := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	tests := []struct {
		name       string
		source     staticSource
		path       string
		wantStatus int
		wantDetail string
	}{
		{"unknown user", staticSource{snapshot: scenario()}, "/recommend/" + unknown.String(), 404,
			"user with id 99999999-9999-9999-9999-999999999999 not found"},
		{"malformed id", staticSource{snapshot: scenario()}, "/recommend/not-a-uuid", 400, `invalid user id "not-a-uuid"`},
		{"empty dataset", staticSource{}, "/recommend/" + userA.String(), 503, "no preference data available"},
		{"store failure", staticSource{err: &database.StoreError{Op: "favorite_genres", Err: errors.New("dial tcp: refused")}},
			"/recommend/" + userA.String(), 500, "failed to load preference data"},
		{"breaker open", staticSource{err: gobreaker.ErrOpenState}, "/recommend/" + userA.String(), 503,
			"preference store temporarily unavailable"},
		{"caller canceled", staticSource{err: fmt.Errorf("load: %w", context.Canceled)}, "/recommend/" + userA.String(), 503,
			"request was canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, tt.source, nil)
			rec := do(t, h, http.MethodGet, tt.path, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			var body models.ErrorDetail
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantStatus || body.Detail != tt.wantDetail {
				t.Errorf("body = %+v, want code %d detail %q", body, tt.wantStatus, tt.wantDetail)
			}
		})
	}
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata models.Metadata `json:"metadata"`
	Error    *models.APIError
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body)
	}
	return env
}

func TestRecommend_V1(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	rec := do(t, h, http.MethodGet, "/api/v1/recommend/"+userA.String()+"?k=2", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Errorf("status = %q, want success", env.Status)
	}
	if env.Metadata.Timestamp.IsZero() {
		t.Error("metadata.timestamp not set")
	}

	var data models.RecommendationData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.UserID != userA || data.K != 2 {
		t.Errorf("data = %+v", data)
	}
	if len(data.Neighbors) != 1 || data.Neighbors[0] != userB {
		t.Errorf("neighbors = %v, want [%v]", data.Neighbors, userB)
	}
}

func TestRecommend_V1DefaultK(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	rec := do(t, h, http.MethodGet, "/api/v1/recommend/"+userA.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var data models.RecommendationData
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.K != 5 {
		t.Errorf("k = %d, want default 5", data.K)
	}
}

func TestRecommend_V1Validation(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"zero", "?k=0", "k must be at least 1"},
		{"too large", "?k=11", "k must be at most 10"},
		{"not a number", "?k=five", "k must be an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/recommend/"+userA.String()+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != CodeValidation || env.Error.Message != tt.wantMsg {
				t.Errorf("error = %+v, want %s %q", env.Error, CodeValidation, tt.wantMsg)
			}
		})
	}

	rec := do(t, h, http.MethodGet, "/api/v1/recommend/xyz", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad uuid status = %d, want 400", rec.Code)
	}
}

func TestRecommend_V1NotFound(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	rec := do(t, h, http.MethodGet, "/api/v1/recommend/"+uuid.New().String(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestCompatibility(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	body := `{"candidates":["` + userB.String() + `","` + userC.String() + `","` + userD.String() + `"]}`
	rec := do(t, h, http.MethodPost, "/api/v1/recommend/"+userA.String()+"/compatibility", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var data models.CompatibilityData
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Candidates != 3 {
		t.Errorf("candidates = %d, want 3", data.Candidates)
	}
	// C shares nothing with A and is omitted.
	if len(data.Results) != 2 {
		t.Fatalf("results = %+v, want 2 entries", data.Results)
	}
	if data.Results[0].UserID != userB || data.Results[0].Compatibility != 100 {
		t.Errorf("results[0] = %+v, want B at 100", data.Results[0])
	}
	if data.Results[1].UserID != userD || data.Results[1].Compatibility != 50 {
		t.Errorf("results[1] = %+v, want D at 50", data.Results[1])
	}
}

func TestCompatibility_BadRequests(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	path := "/api/v1/recommend/" + userA.String() + "/compatibility"

	for name, body := range map[string]string{
		"not json":      "{",
		"no candidates": `{}`,
		"empty list":    `{"candidates":[]}`,
		"bad uuid":      `{"candidates":["nope"]}`,
		"wrong type":    `{"candidates":"x"}`,
		"nil uuid":      `{"candidates":["00000000-0000-0000-0000-000000000000"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, path, body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	live := do(t, newTestServer(t, staticSource{}, fakePinger{err: errors.New("down")}), http.MethodGet, "/api/v1/health/live", "")
	if live.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", live.Code)
	}

	ready := do(t, newTestServer(t, staticSource{}, fakePinger{}), http.MethodGet, "/api/v1/health/ready", "")
	if ready.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", ready.Code)
	}

	notReady := do(t, newTestServer(t, staticSource{}, fakePinger{err: errors.New("down")}), http.MethodGet, "/api/v1/health/ready", "")
	if notReady.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready status = %d, want 503", notReady.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	_ = do(t, h, http.MethodGet, "/recommend/"+userA.String(), "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "friends_api_requests_total") {
		t.Error("metrics output missing friends_api_requests_total")
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, staticSource{snapshot: scenario()}, nil)
	rec := do(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
