package chi

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/streamflex/internal/domain"
	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
	cataloguc "github.com/kailas-cloud/streamflex/internal/usecase/catalog"
)

//go:embed templates/*.html
var templatesFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templatesFS, "templates/index.html"),
)

type pageData struct {
	Kinds     []string
	Kind      string
	Title     string
	Genre     string
	MinRating float64
	Items     []TitleResponse
	Total     int
	Searched  bool
	Error     string
}

// Index handles GET /: filter form, result count, results table and add form.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData{Kinds: kindOptions(), Kind: string(filter.KindAny)}

	params, err := bindSearchParams(r.URL.Query())
	if err != nil {
		data.Error = err.Error()
		s.renderIndex(w, http.StatusBadRequest, data)
		return
	}

	crit := params.criteria()
	data.Kind = string(crit.Kind)
	data.Title = crit.TitleSubstring
	data.Genre = crit.GenreSubstring
	data.MinRating = crit.MinRating

	if err := crit.Validate(); err != nil {
		data.Error = err.Error()
		s.renderIndex(w, http.StatusBadRequest, data)
		return
	}

	titles, err := s.catalog.Search(r.Context(), crit)
	if err != nil {
		s.logger.Error("page search failed", zap.Error(err))
		data.Error = "search is unavailable"
		s.renderIndex(w, statusFor(err), data)
		return
	}

	data.setResults(titles)
	s.renderIndex(w, http.StatusOK, data)
}

// SubmitTitle handles POST /titles from the add form and redirects back to the page.
// A blank title is ignored.
func (s *Server) SubmitTitle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, pageData{Kinds: kindOptions(), Error: "invalid form"})
		return
	}

	name := strings.TrimSpace(r.PostForm.Get("title"))
	if name == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	in, err := newTitleFromForm(name, r)
	if err == nil {
		_, err = s.catalog.Add(r.Context(), in)
	}
	if err != nil {
		status := statusFor(err)
		msg := "could not save title"
		if status == http.StatusBadRequest {
			msg = err.Error()
		} else {
			s.logger.Error("form add failed", zap.Error(err))
		}
		data := pageData{Kinds: kindOptions(), Kind: string(filter.KindAny), Error: msg}
		if titles, err := s.catalog.Search(r.Context(), filter.Criteria{Kind: filter.KindAny}); err == nil {
			data.setResults(titles)
		}
		s.renderIndex(w, status, data)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func newTitleFromForm(name string, r *http.Request) (cataloguc.NewTitle, error) {
	kind, err := domtitle.ParseKind(r.PostForm.Get("kind"))
	if err != nil {
		return cataloguc.NewTitle{}, err
	}

	var rating float64
	if err := runtime.BindQueryParameter("form", true, true, "rating", r.PostForm, &rating); err != nil {
		return cataloguc.NewTitle{}, fmt.Errorf("rating must be a number between %v and %v: %w",
			domtitle.MinRating, domtitle.MaxRating, domain.ErrInvalidTitle)
	}

	return cataloguc.NewTitle{
		Title:  name,
		Kind:   kind,
		Rating: rating,
		Genres: domtitle.ParseGenres(r.PostForm.Get("genres")),
	}, nil
}

func (d *pageData) setResults(titles []domtitle.Title) {
	d.Items = titlesToResponse(titles)
	d.Total = len(titles)
	d.Searched = true
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", zap.Error(err))
	}
}

func kindOptions() []string {
	opts := []string{string(filter.KindAny)}
	for _, k := range domtitle.Kinds() {
		opts = append(opts, k.String())
	}
	return opts
}
