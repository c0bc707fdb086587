// internal/app/features/exercises/handler.go
package exercises

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const EmptyQueryText = "Please enter a query for AI exercise suggestions."

type Handler struct {
	DB      *mongo.Database
	Coach   *coach.Coach
	Catalog Catalog
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	users *userstore.Store
}

func NewHandler(db *mongo.Database, c *coach.Coach, catalog Catalog, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Coach:   c,
		Catalog: catalog,
		ErrLog:  errLog,
		Log:     logger,
		users:   userstore.New(db),
	}
}

type groupLink struct {
	Name   string
	Active bool
}

type pageData struct {
	viewdata.BaseVM
	Groups   []groupLink
	Selected Group

	Query       string
	Suggestions template.HTML
}

func (h *Handler) page(r *http.Request, group string) pageData {
	sel := h.Catalog.Group(group)
	links := make([]groupLink, 0, len(h.Catalog.Groups))
	for _, n := range h.Catalog.Names() {
		links = append(links, groupLink{Name: n, Active: n == sel.Name})
	}
	return pageData{
		BaseVM:   viewdata.NewBaseVM(r, "AI-Enhanced Exercise Library", "/home"),
		Groups:   links,
		Selected: sel,
	}
}

// ServeLibrary shows one muscle group, chosen by ?group=.
func (h *Handler) ServeLibrary(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "exercises", h.page(r, r.URL.Query().Get("group")))
}

// HandleFinder asks the model for exercises matching the query.
func (h *Handler) HandleFinder(w http.ResponseWriter, r *http.Request) {
	orgID, uid, ok := authz.Scope(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	data := h.page(r, r.PostFormValue("group"))
	data.Query = strings.TrimSpace(r.PostFormValue("query"))
	if data.Query == "" {
		data.SetError(EmptyQueryText)
		templates.Render(w, r, "exercises", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	u, err := h.users.GetByID(ctx, orgID, uid)
	cancel()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "exercises: load profile", err, "Could not load your user profile.", "/exercises")
		return
	}

	html, err := h.Coach.HTML(r.Context(), uid.Hex(), prompts.ExerciseFinder(prompts.ExerciseInput{
		Profile: coach.ProfileFor(u),
		Query:   data.Query,
	}))
	if err != nil {
		data.SetError(coach.RateLimitedText)
	} else {
		data.Suggestions = html
	}
	templates.Render(w, r, "exercises", data)
}
