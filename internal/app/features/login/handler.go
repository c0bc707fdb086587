// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	organizationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/organizations"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auditlog"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/inputval"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/navigation"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/normalize"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/ratelimit"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter
	Audit      *auditlog.Logger

	orgs  *organizationstore.Store
	users *userstore.Store
}

// NewHandler builds the login handler. limiter and auditLog may be nil.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, limiter *ratelimit.LoginLimiter, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Audit:      auditLog,
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    limiter,
		orgs:       organizationstore.New(db),
		users:      userstore.New(db),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type orgOption struct {
	ID       string
	Name     string
	Selected bool
}

type loginFormData struct {
	viewdata.BaseVM
	Orgs      []orgOption
	NoOrgs    bool
	Email     string
	Name      string
	ReturnURL string
}

type loginInput struct {
	OrgID string `validate:"required,objectid" label:"Organization"`
	Email string `validate:"required,loginemail" label:"Email"`
	Name  string `validate:"max=200" label:"Name"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: navigation.SafeBackURL(r, navigation.AfterLogin),
	}
	if err := h.loadOrgs(r.Context(), &data, ""); err != nil {
		h.ErrLog.LogServerError(w, r, "login: list organizations", err, "Could not load organizations.", "/login")
		return
	}
	templates.Render(w, r, "login", data)
}

func (h *Handler) loadOrgs(ctx context.Context, data *loginFormData, selected string) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	orgs, err := h.orgs.List(ctx)
	if err != nil {
		return err
	}
	data.Orgs = make([]orgOption, 0, len(orgs))
	for _, o := range orgs {
		data.Orgs = append(data.Orgs, orgOption{ID: o.ID.Hex(), Name: o.Name, Selected: o.ID.Hex() == selected})
	}
	data.NoOrgs = len(orgs) == 0
	if data.NoOrgs {
		data.Notice = "No organizations found. Please ask an admin to create one first."
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleLoginPost signs an existing member in, or creates the account when
// the email is new to the organization and a name was given. The first
// account in an organization becomes its admin.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse form", err, "Invalid form submission.", "/login")
		return
	}
	in := loginInput{
		OrgID: strings.TrimSpace(r.PostFormValue("org_id")),
		Email: normalize.Email(r.PostFormValue("email")),
		Name:  normalize.Name(r.PostFormValue("name")),
	}
	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Email:     in.Email,
		Name:      in.Name,
		ReturnURL: navigation.SafeBackURL(r, navigation.AfterLogin),
	}
	reRender := func(msg string) {
		data.SetError(msg)
		if err := h.loadOrgs(r.Context(), &data, in.OrgID); err != nil {
			h.Log.Warn("login: reload organizations", zap.Error(err))
		}
		templates.Render(w, r, "login", data)
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, in.Email); !ok {
			h.Audit.LoginRateLimited(r.Context(), r, in.Email)
			w.WriteHeader(http.StatusTooManyRequests)
			reRender(reason)
			return
		}
	}

	if res := inputval.Validate(in); res.HasErrors() {
		if in.Email == "" || in.OrgID == "" {
			reRender("Please provide your email and select an organization.")
			return
		}
		reRender(res.First())
		return
	}
	orgID, _ := primitive.ObjectIDFromHex(in.OrgID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, err := h.orgs.GetByID(ctx, orgID)
	if errors.Is(err, organizationstore.ErrNotFound) {
		reRender("That organization no longer exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: load organization", err, "Could not sign you in.", "/login")
		return
	}

	u, err := h.users.GetByEmail(ctx, orgID, in.Email)
	switch {
	case err == nil:
		h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("org_id", orgID.Hex()))
		h.Audit.LoginSuccess(ctx, r, u.ID, orgID)
	case errors.Is(err, userstore.ErrNotFound):
		if in.Name == "" {
			reRender("Please provide your name to sign up.")
			return
		}
		u, err = h.users.Create(ctx, orgID, in.Name, in.Email)
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			// Lost a race with a concurrent sign-up; the account exists now.
			u, err = h.users.GetByEmail(ctx, orgID, in.Email)
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "login: create user", err, "Could not create your account.", "/login")
			return
		}
		h.Log.Info("user signed up",
			zap.String("user_id", u.ID.Hex()),
			zap.String("org_id", orgID.Hex()),
			zap.Bool("is_admin", u.IsAdmin))
		h.Audit.SignUp(ctx, r, u.ID, orgID, u.IsAdmin)
	default:
		h.ErrLog.LogServerError(w, r, "login: find user", err, "Could not sign you in.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sessionUser(u, org)); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err, "Could not sign you in.", "/login")
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(in.Email)
	}
	http.Redirect(w, r, data.ReturnURL, http.StatusSeeOther)
}

func sessionUser(u models.User, org models.Organization) *auth.SessionUser {
	return &auth.SessionUser{
		ID:               u.ID.Hex(),
		Name:             u.Name,
		Email:            u.Email,
		Role:             normalize.Role(u.IsAdmin),
		OrganizationID:   org.ID.Hex(),
		OrganizationName: org.Name,
	}
}
