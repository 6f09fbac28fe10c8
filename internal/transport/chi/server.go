package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
	"github.com/kailas-cloud/streamflex/internal/metrics"
	cataloguc "github.com/kailas-cloud/streamflex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/streamflex/internal/usecase/health"
)

// Server serves the catalog JSON API, the admin page and operational endpoints.
type Server struct {
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server over the catalog and health services.
func NewServer(catalog *cataloguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		catalog:       catalog,
		health:        health,
		logger:        logger,
		validate:      newValidator(),
		errorHandlers: defaultErrorHandlers(),
	}
}

// RouteOptions configure the JSON API guards.
type RouteOptions struct {
	APIKeys         []string
	RateLimitPerMin int
}

// Mount registers all routes on r. Every write path shares one rate limiter;
// bearer auth applies to the JSON API only since the admin form cannot send it.
func (s *Server) Mount(r chi.Router, opts RouteOptions) {
	limit := RateLimitMiddleware(opts.RateLimitPerMin)

	r.Get("/", s.Index)
	r.With(limit).Post("/titles", s.SubmitTitle)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limit)
		r.Use(BearerAuthMiddleware(opts.APIKeys))
		r.Get("/titles", s.SearchTitles)
		r.Post("/titles", s.CreateTitle)
	})
}

// TitleResponse is the JSON representation of a catalog title.
type TitleResponse struct {
	Title       string    `json:"title"`
	Kind        string    `json:"kind"`
	Rating      float64   `json:"rating"`
	Genres      []string  `json:"genres"`
	ReleasedAt  time.Time `json:"released_at"`
	Recommended bool      `json:"recommended"`
}

// TitleListResponse is the search response body.
type TitleListResponse struct {
	Items []TitleResponse `json:"items"`
	Total int             `json:"total"`
}

// CreateTitleRequest is the POST /api/v1/titles body.
type CreateTitleRequest struct {
	Title  string    `json:"title" validate:"required,max=400"`
	Kind   string    `json:"kind" validate:"required"`
	Rating *float64  `json:"rating" validate:"required,gte=0,lte=10"`
	Genres genreList `json:"genres"`
}

// genreList accepts either a JSON array of genres or a comma-delimited string.
type genreList []string

func (g *genreList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*g = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("genres must be an array of strings or a comma-separated string")
	}
	*g = domtitle.ParseGenres(s)
	return nil
}

// searchParams are the optional query parameters of a title search.
type searchParams struct {
	Kind      *string
	Title     *string
	Genre     *string
	MinRating *float64
}

// SearchTitles handles GET /api/v1/titles.
func (s *Server) SearchTitles(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	crit := params.criteria()
	if err := crit.Validate(); err != nil {
		s.handleDomainError(w, err)
		return
	}

	titles, err := s.catalog.Search(r.Context(), crit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TitleListResponse{
		Items: titlesToResponse(titles),
		Total: len(titles),
	})
}

// CreateTitle handles POST /api/v1/titles.
func (s *Server) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req CreateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, validationMessage(err))
		return
	}

	kind, err := domtitle.ParseKind(req.Kind)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	t, err := s.catalog.Add(r.Context(), cataloguc.NewTitle{
		Title:  req.Title,
		Kind:   kind,
		Rating: *req.Rating,
		Genres: req.Genres,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, titleToResponse(&t))
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Driver string            `json:"driver"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status: string(report.Status),
		Driver: report.Driver,
		Checks: checks,
	})
}

// bindSearchParams binds the optional search parameters. Blank values add no constraint.
func bindSearchParams(q url.Values) (searchParams, error) {
	var p searchParams
	bindings := []struct {
		name string
		dest any
	}{
		{"kind", &p.Kind},
		{"title", &p.Title},
		{"genre", &p.Genre},
		{"min_rating", &p.MinRating},
	}
	for _, b := range bindings {
		// Cleared form inputs arrive as "name="; treat them as absent.
		if strings.TrimSpace(q.Get(b.name)) == "" {
			continue
		}
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return searchParams{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}
	return p, nil
}

func (p searchParams) criteria() filter.Criteria {
	return filter.Criteria{
		Kind:           kindFilter(deref(p.Kind)),
		TitleSubstring: deref(p.Title),
		GenreSubstring: deref(p.Genre),
		MinRating:      derefFloat(p.MinRating),
	}
}

// kindFilter normalizes user input; unknown values pass through for Validate to reject.
func kindFilter(s string) filter.KindFilter {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(filter.KindAny)) {
		return filter.KindAny
	}
	if k, err := domtitle.ParseKind(s); err == nil {
		return filter.KindFilter(k)
	}
	return filter.KindFilter(s)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be between %v and %v",
				fe.Field(), domtitle.MinRating, domtitle.MaxRating))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func titleToResponse(t *domtitle.Title) TitleResponse {
	genres := t.Genres()
	if genres == nil {
		genres = []string{}
	}
	return TitleResponse{
		Title:       t.Title(),
		Kind:        t.Kind().String(),
		Rating:      t.Rating(),
		Genres:      genres,
		ReleasedAt:  t.ReleasedAt(),
		Recommended: t.Recommended(),
	}
}

func titlesToResponse(titles []domtitle.Title) []TitleResponse {
	items := make([]TitleResponse, len(titles))
	for i := range titles {
		items[i] = titleToResponse(&titles[i])
	}
	return items
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
