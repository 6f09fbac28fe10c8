package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/streamflex/internal/db"
	"github.com/kailas-cloud/streamflex/internal/db/memory"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
	titlerepo "github.com/kailas-cloud/streamflex/internal/repository/title"
	cataloguc "github.com/kailas-cloud/streamflex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/streamflex/internal/usecase/health"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testStore interface {
	Ping(ctx context.Context) error
	Find(ctx context.Context, collection string, q db.Query, projection []string) ([]db.Document, error)
	InsertOne(ctx context.Context, collection string, doc db.Document) error
}

type failingStore struct{}

func (failingStore) Ping(context.Context) error { return errors.New("connection refused") }

func (failingStore) Find(context.Context, string, db.Query, []string) ([]db.Document, error) {
	return nil, &db.Error{Op: db.OpFind, Err: errors.New("connection refused")}
}

func (failingStore) InsertOne(context.Context, string, db.Document) error {
	return &db.Error{Op: db.OpInsertOne, Err: errors.New("connection refused")}
}

func newTestRouter(t *testing.T, store testStore, apiKeys ...string) (http.Handler, *cataloguc.Service) {
	t.Helper()
	catalog := cataloguc.New(titlerepo.New(store, "titles")).
		WithClock(func() time.Time { return fixedNow })
	srv := NewServer(catalog, healthuc.New(store, "memory"), zap.NewNop())

	r := chi.NewRouter()
	srv.Mount(r, RouteOptions{APIKeys: apiKeys})
	return r, catalog
}

func seed(t *testing.T, catalog *cataloguc.Service, titles ...cataloguc.NewTitle) {
	t.Helper()
	for _, in := range titles {
		if _, err := catalog.Add(context.Background(), in); err != nil {
			t.Fatalf("seed %q: %v", in.Title, err)
		}
	}
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) TitleListResponse {
	t.Helper()
	var resp TitleListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return resp
}

func names(items []TitleResponse) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func catalogFixture() []cataloguc.NewTitle {
	return []cataloguc.NewTitle{
		{Title: "Drama Queen", Kind: domtitle.KindMovie, Rating: 9.0, Genres: []string{"Comedy"}},
		{Title: "DRAMA", Kind: domtitle.KindSeries, Rating: 7.9, Genres: []string{"Thriller"}},
		{Title: "Space Saga", Kind: domtitle.KindSeries, Rating: 8.0, Genres: []string{"Sci-Fi", "Drama"}},
	}
}

func TestSearchTitles_NoParamsReturnsAll(t *testing.T) {
	h, catalog := newTestRouter(t, memory.NewStore())
	seed(t, catalog, catalogFixture()...)

	rr := do(h, "GET", "/api/v1/titles", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	resp := decodeList(t, rr)
	if resp.Total != 3 || len(resp.Items) != 3 {
		t.Fatalf("total = %d, items = %d, want 3", resp.Total, len(resp.Items))
	}
	if got := strings.Join(names(resp.Items), ","); got != "Drama Queen,DRAMA,Space Saga" {
		t.Errorf("order = %s", got)
	}
}

func TestSearchTitles_BlankParamsAreAbsent(t *testing.T) {
	h, catalog := newTestRouter(t, memory.NewStore())
	seed(t, catalog, catalogFixture()...)

	tests := []struct {
		name  string
		query string
	}{
		{"empty min_rating", "min_rating="},
		{"all empty", "kind=&title=&genre=&min_rating="},
		{"whitespace min_rating", "min_rating=%20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, "GET", "/api/v1/titles?"+tt.query, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			if resp := decodeList(t, rr); resp.Total != 3 {
				t.Errorf("total = %d, want 3", resp.Total)
			}
		})
	}
}

func TestSearchTitles_Filters(t *testing.T) {
	h, catalog := newTestRouter(t, memory.NewStore())
	seed(t, catalog, catalogFixture()...)

	tests := []struct {
		query string
		want  string
	}{
		{"kind=Movie", "Drama Queen"},
		{"kind=series", "DRAMA,Space Saga"},
		{"kind=Any", "Drama Queen,DRAMA,Space Saga"},
		{"title=drama", "Drama Queen,DRAMA"},
		{"genre=drama", "Space Saga"},
		{"min_rating=8.0", "Drama Queen,Space Saga"},
		{"min_rating=0", "Drama Queen,DRAMA,Space Saga"},
		{"kind=Movie&min_rating=8.5", "Drama Queen"},
		{"title=a.c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := do(h, "GET", "/api/v1/titles?"+tt.query, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			resp := decodeList(t, rr)
			if got := strings.Join(names(resp.Items), ","); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if resp.Total != len(resp.Items) {
				t.Errorf("total %d != len(items) %d", resp.Total, len(resp.Items))
			}
		})
	}
}

func TestSearchTitles_BadParams(t *testing.T) {
	h, _ := newTestRouter(t, memory.NewStore())

	for _, q := range []string{"min_rating=high", "min_rating=11", "kind=Documentary"} {
		t.Run(q, func(t *testing.T) {
			rr := do(h, "GET", "/api/v1/titles?"+q, "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if errResp.Code != CodeBadRequest {
				t.Errorf("code = %s, want %s", errResp.Code, CodeBadRequest)
			}
		})
	}
}

func TestSearchTitles_StoreDown(t *testing.T) {
	h, _ := newTestRouter(t, failingStore{})

	rr := do(h, "GET", "/api/v1/titles", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Error("response leaks store error")
	}
}

func TestCreateTitle_Created(t *testing.T) {
	h, catalog := newTestRouter(t, memory.NewStore())

	tests := []struct {
		name        string
		body        string
		recommended bool
		genres      []string
	}{
		{"recommended", `{"title":"Test Show","kind":"Series","rating":9.0,"genres":["Thriller"]}`, true, []string{"Thriller"}},
		{"not recommended", `{"title":"Low","kind":"movie","rating":5.0,"genres":"Comedy, ,Drama"}`, false, []string{"Comedy", "Drama"}},
		{"threshold", `{"title":"Edge","kind":"Movie","rating":8.5}`, true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, "POST", "/api/v1/titles", tt.body)
			if rr.Code != http.StatusCreated {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			var resp TitleResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Recommended != tt.recommended {
				t.Errorf("recommended = %v, want %v", resp.Recommended, tt.recommended)
			}
			if strings.Join(resp.Genres, "|") != strings.Join(tt.genres, "|") {
				t.Errorf("genres = %v, want %v", resp.Genres, tt.genres)
			}
			if !resp.ReleasedAt.Equal(fixedNow) {
				t.Errorf("released_at = %v, want %v", resp.ReleasedAt, fixedNow)
			}
		})
	}

	all, err := catalog.Search(context.Background(), defaultCriteria())
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(all) != len(tests) {
		t.Errorf("stored %d titles, want %d", len(all), len(tests))
	}
}

func TestCreateTitle_Invalid(t *testing.T) {
	h, catalog := newTestRouter(t, memory.NewStore())

	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"malformed json", `{"title":`, CodeBadRequest},
		{"missing title", `{"kind":"Movie","rating":5}`, CodeValidationFailed},
		{"missing rating", `{"title":"X","kind":"Movie"}`, CodeValidationFailed},
		{"rating too high", `{"title":"X","kind":"Movie","rating":10.5}`, CodeValidationFailed},
		{"unknown kind", `{"title":"X","kind":"Documentary","rating":5}`, CodeValidationFailed},
		{"blank title", `{"title":"   ","kind":"Movie","rating":5}`, CodeValidationFailed},
		{"bad genres", `{"title":"X","kind":"Movie","rating":5,"genres":42}`, CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, "POST", "/api/v1/titles", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body = %s", rr.Code, rr.Body.String())
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if errResp.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", errResp.Code, tt.code, errResp.Message)
			}
		})
	}

	all, _ := catalog.Search(context.Background(), defaultCriteria())
	if len(all) != 0 {
		t.Errorf("invalid requests stored %d titles", len(all))
	}
}

func TestCreateTitle_ValidationMessageUsesJSONNames(t *testing.T) {
	h, _ := newTestRouter(t, memory.NewStore())

	rr := do(h, "POST", "/api/v1/titles", `{"kind":"Movie"}`)
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Message != "title is required; rating is required" {
		t.Errorf("message = %q", errResp.Message)
	}
}

func TestCreateTitle_StoreDown(t *testing.T) {
	h, _ := newTestRouter(t, failingStore{})

	rr := do(h, "POST", "/api/v1/titles", `{"title":"X","kind":"Movie","rating":5}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestAPI_RequiresKeyWhenConfigured(t *testing.T) {
	h, _ := newTestRouter(t, memory.NewStore(), "secret")

	if rr := do(h, "GET", "/api/v1/titles", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("api without key: got %d, want 401", rr.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/titles", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("api with key: got %d, want 200", rr.Code)
	}

	for _, path := range []string{"/", "/health", "/metrics"} {
		if rr := do(h, "GET", path, ""); rr.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200 without key", path, rr.Code)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		store  testStore
		status int
		want   string
	}{
		{"healthy", memory.NewStore(), http.StatusOK, "ok"},
		{"unhealthy", failingStore{}, http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t, tt.store)
			rr := do(h, "GET", "/health", "")
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.want || resp.Checks["database"] != tt.want {
				t.Errorf("resp = %+v", resp)
			}
			if resp.Driver != "memory" {
				t.Errorf("driver = %q", resp.Driver)
			}
		})
	}
}

func TestMount_RateLimitCoversFormAndAPI(t *testing.T) {
	catalog := cataloguc.New(titlerepo.New(memory.NewStore(), "titles"))
	srv := NewServer(catalog, healthuc.New(memory.NewStore(), "memory"), zap.NewNop())
	r := chi.NewRouter()
	srv.Mount(r, RouteOptions{RateLimitPerMin: 2})

	form := url.Values{"title": {"Test Show"}, "kind": {"Series"}, "rating": {"9"}}
	if rr := postForm(r, form); rr.Code != http.StatusSeeOther {
		t.Fatalf("form status = %d, want 303", rr.Code)
	}
	if rr := do(r, "GET", "/api/v1/titles", ""); rr.Code != http.StatusOK {
		t.Fatalf("api status = %d, want 200", rr.Code)
	}

	// Both routes draw from the same per-IP budget.
	if rr := postForm(r, form); rr.Code != http.StatusTooManyRequests {
		t.Errorf("form status = %d, want 429", rr.Code)
	}
	if rr := do(r, "GET", "/", ""); rr.Code != http.StatusOK {
		t.Errorf("page status = %d, read-only page must not be limited", rr.Code)
	}
}

func TestCreateTitle_MultibyteTitleWithinLimit(t *testing.T) {
	h, _ := newTestRouter(t, memory.NewStore())

	name := strings.Repeat("é", 300)
	rr := do(h, "POST", "/api/v1/titles", `{"title":"`+name+`","kind":"Movie","rating":7}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = do(h, "POST", "/api/v1/titles", `{"title":"`+strings.Repeat("é", 401)+`","kind":"Movie","rating":7}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for 401 characters", rr.Code)
	}
}
