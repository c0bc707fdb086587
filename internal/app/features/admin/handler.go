// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/store/audit"
	organizationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/organizations"
	teamstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/teams"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auditlog"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/inputval"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/nudge"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin panel: organizations, their teams, and a manual
// inactivity scan.
type Handler struct {
	DB      *mongo.Database
	Scanner *nudge.Scanner
	Audit   *auditlog.Logger
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	orgs   *organizationstore.Store
	teams  *teamstore.Store
	users  *userstore.Store
	events *audit.Store
}

// recentActivity is how many admin audit events the panel lists.
const recentActivity = 20

// NewHandler builds the admin handler. sc and auditLog may be nil.
func NewHandler(db *mongo.Database, sc *nudge.Scanner, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Scanner: sc,
		Audit:   auditLog,
		ErrLog:  errLog,
		Log:     logger,
		orgs:    organizationstore.New(db),
		teams:   teamstore.New(db),
		users:   userstore.New(db),
		events:  audit.New(db),
	}
}

// notices maps the ?ok= code of a post-redirect-get onto the banner text.
var notices = map[string]string{
	"org_created":  "Successfully created organization!",
	"org_renamed":  "Renamed successfully!",
	"team_added":   "Team added successfully!",
	"team_renamed": "Renamed successfully!",
	"team_deleted": "Team deleted.",
}

type teamRow struct {
	ID   string
	Name string
}

type orgRow struct {
	ID      string
	Name    string
	Members int64
	Teams   []teamRow
	Own     bool
}

type scanResult struct {
	RunID      string
	Orgs       int
	Users      int
	Nudged     int
	Skipped    int
	FailedOrgs int
}

type activityRow struct {
	When   string
	Action string
	Detail string
}

type pageData struct {
	viewdata.BaseVM
	Orgs        []orgRow
	ScanEnabled bool
	Scan        *scanResult
	Activity    []activityRow
}

var actionLabels = map[string]string{
	audit.EventOrgCreated:  "Organization created",
	audit.EventOrgRenamed:  "Organization renamed",
	audit.EventTeamCreated: "Team added",
	audit.EventTeamRenamed: "Team renamed",
	audit.EventTeamDeleted: "Team deleted",
	audit.EventScanRun:     "Inactivity scan",
}

func activityOf(events []audit.Event) []activityRow {
	rows := make([]activityRow, 0, len(events))
	for _, e := range events {
		label, ok := actionLabels[e.EventType]
		if !ok {
			label = e.EventType
		}
		detail := e.Details["name"]
		if e.EventType == audit.EventScanRun {
			detail = e.Details["nudged"] + " nudged"
			if f := e.Details["failed_orgs"]; f != "" && f != "0" {
				detail += ", " + f + " failed orgs"
			}
		}
		rows = append(rows, activityRow{
			When:   e.Timestamp.UTC().Format("2006-01-02 15:04 UTC"),
			Action: label,
			Detail: detail,
		})
	}
	return rows
}

type nameInput struct {
	Name string `validate:"required,max=200" label:"Name"`
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) (pageData, bool) {
	data := pageData{
		BaseVM:      viewdata.NewBaseVM(r, "Enterprise Admin Panel", "/admin"),
		ScanEnabled: h.Scanner != nil,
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	orgs, err := h.orgs.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list organizations", err, "Could not load organizations.", "/home")
		return data, false
	}
	own := authz.UserOrgID(r)
	for _, o := range orgs {
		row := orgRow{ID: o.ID.Hex(), Name: o.Name, Own: o.ID == own}
		teams, err := h.teams.ListByOrg(ctx, o.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "admin: list teams", err, "Could not load teams.", "/home")
			return data, false
		}
		for _, t := range teams {
			row.Teams = append(row.Teams, teamRow{ID: t.ID.Hex(), Name: t.Name})
		}
		if row.Members, err = h.users.CountByOrg(ctx, o.ID); err != nil {
			h.Log.Warn("admin: count members", zap.String("org_id", o.ID.Hex()), zap.Error(err))
		}
		data.Orgs = append(data.Orgs, row)
	}

	if events, err := h.events.Recent(ctx, audit.CategoryAdmin, recentActivity); err != nil {
		h.Log.Warn("admin: load recent activity", zap.Error(err))
	} else {
		data.Activity = activityOf(events)
	}
	return data, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, errMsg string) {
	data, ok := h.page(w, r)
	if !ok {
		return
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "admin", data)
}

func (h *Handler) done(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/admin?ok="+code, http.StatusSeeOther)
}

func parseName(r *http.Request) (string, string) {
	in := nameInput{Name: strings.TrimSpace(r.PostFormValue("name"))}
	if res := inputval.Validate(in); res.HasErrors() {
		return "", res.First()
	}
	return in.Name, ""
}

func objectID(r *http.Request, key string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	return id, err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePanel(w http.ResponseWriter, r *http.Request) {
	data, ok := h.page(w, r)
	if !ok {
		return
	}
	data.Notice = notices[r.URL.Query().Get("ok")]
	templates.Render(w, r, "admin", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Organizations                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreateOrg creates an organization. POST /admin/orgs
func (h *Handler) HandleCreateOrg(w http.ResponseWriter, r *http.Request) {
	name, msg := parseName(r)
	if msg != "" {
		h.render(w, r, msg)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	org, err := h.orgs.Create(ctx, name, uid)
	if err != nil {
		if errors.Is(err, organizationstore.ErrDuplicateOrganization) {
			h.render(w, r, "An organization with this name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "admin: create organization", err, "Failed to create organization.", "/admin")
		return
	}
	h.Audit.OrgCreated(ctx, r, uid, org.ID, org.Name)
	h.done(w, r, "org_created")
}

// HandleRenameOrg renames an organization. POST /admin/orgs/{orgID}/rename
func (h *Handler) HandleRenameOrg(w http.ResponseWriter, r *http.Request) {
	orgID, ok := objectID(r, "orgID")
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "admin: bad org id", nil, "Organization not found.", "/admin")
		return
	}
	name, msg := parseName(r)
	if msg != "" {
		h.render(w, r, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	switch err := h.orgs.Rename(ctx, orgID, name); {
	case errors.Is(err, organizationstore.ErrDuplicateOrganization):
		h.render(w, r, "An organization with this name already exists.")
	case errors.Is(err, organizationstore.ErrNotFound):
		h.ErrLog.LogBadRequest(w, r, "admin: rename missing organization", err, "Organization not found.", "/admin")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "admin: rename organization", err, "Rename failed.", "/admin")
	default:
		_, _, uid, _ := authz.UserCtx(r)
		h.Audit.OrgRenamed(ctx, r, uid, orgID, name)
		h.done(w, r, "org_renamed")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Teams                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleAddTeam adds a team. POST /admin/orgs/{orgID}/teams
func (h *Handler) HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	orgID, ok := objectID(r, "orgID")
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "admin: bad org id", nil, "Organization not found.", "/admin")
		return
	}
	name, msg := parseName(r)
	if msg != "" {
		h.render(w, r, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if _, err := h.orgs.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "admin: team for missing organization", err, "Organization not found.", "/admin")
			return
		}
		h.ErrLog.LogServerError(w, r, "admin: load organization", err, "Failed to add team.", "/admin")
		return
	}
	team, err := h.teams.Create(ctx, orgID, name)
	if err != nil {
		if errors.Is(err, teamstore.ErrDuplicateTeamName) {
			h.render(w, r, "A team with this name already exists in the organization.")
			return
		}
		h.ErrLog.LogServerError(w, r, "admin: create team", err, "Failed to add team.", "/admin")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.TeamCreated(ctx, r, uid, orgID, team.ID, team.Name)
	h.done(w, r, "team_added")
}

// HandleRenameTeam renames a team. POST /admin/orgs/{orgID}/teams/{teamID}/rename
func (h *Handler) HandleRenameTeam(w http.ResponseWriter, r *http.Request) {
	orgID, ok1 := objectID(r, "orgID")
	teamID, ok2 := objectID(r, "teamID")
	if !ok1 || !ok2 {
		h.ErrLog.LogBadRequest(w, r, "admin: bad team id", nil, "Team not found.", "/admin")
		return
	}
	name, msg := parseName(r)
	if msg != "" {
		h.render(w, r, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	switch err := h.teams.Rename(ctx, orgID, teamID, name); {
	case errors.Is(err, teamstore.ErrDuplicateTeamName):
		h.render(w, r, "A team with this name already exists in the organization.")
	case errors.Is(err, teamstore.ErrNotFound):
		h.ErrLog.LogBadRequest(w, r, "admin: rename missing team", err, "Team not found.", "/admin")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "admin: rename team", err, "Rename failed.", "/admin")
	default:
		_, _, uid, _ := authz.UserCtx(r)
		h.Audit.TeamRenamed(ctx, r, uid, orgID, teamID, name)
		h.done(w, r, "team_renamed")
	}
}

// HandleDeleteTeam deletes a team. POST /admin/orgs/{orgID}/teams/{teamID}/delete
func (h *Handler) HandleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	orgID, ok1 := objectID(r, "orgID")
	teamID, ok2 := objectID(r, "teamID")
	if !ok1 || !ok2 {
		h.ErrLog.LogBadRequest(w, r, "admin: bad team id", nil, "Team not found.", "/admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	n, err := h.teams.Delete(ctx, orgID, teamID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: delete team", err, "Delete failed.", "/admin")
		return
	}
	if n == 0 {
		h.ErrLog.LogBadRequest(w, r, "admin: delete missing team", nil, "Team not found.", "/admin")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Audit.TeamDeleted(ctx, r, uid, orgID, teamID)
	h.done(w, r, "team_deleted")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/scan – run the inactivity scan now                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if h.Scanner == nil {
		h.render(w, r, "The inactivity scanner is not configured.")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.Log.Info("manual inactivity scan requested", zap.String("by", uid.Hex()))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Scan())
	defer cancel()
	sum, err := h.Scanner.Run(ctx)
	if sum.RunID != "" {
		h.Audit.ScanRun(r.Context(), r, uid, sum.RunID, sum.Nudged, sum.FailedOrgs)
	}

	data, ok := h.page(w, r)
	if !ok {
		return
	}
	switch {
	case errors.Is(err, nudge.ErrScanRunning):
		data.SetError("A scan is already running. Please try again in a moment.")
	case err != nil:
		h.Log.Error("manual inactivity scan failed", zap.Error(err))
		data.SetError("The scan did not complete. Notifications written before the failure were kept.")
	}
	if sum.RunID != "" {
		data.Scan = &scanResult{
			RunID:      sum.RunID,
			Orgs:       sum.Orgs,
			Users:      sum.Users,
			Nudged:     sum.Nudged,
			Skipped:    sum.Skipped,
			FailedOrgs: sum.FailedOrgs,
		}
	}
	templates.Render(w, r, "admin", data)
}

