// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// DefaultSiteName is shown in the header and page titles.
const DefaultSiteName = "Wellness Hub"

// NavItem is one entry in the sidebar.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	Role       string
	UserName   string
	UserOrg    string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Nav         []NavItem

	CSRFToken string

	// Banners; Error is set when a form fails validation or a save fails.
	Error  template.HTML
	Notice string
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    DefaultSiteName,
		IsLoggedIn:  signedIn,
		IsAdmin:     signedIn && role == "admin",
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if user, ok := auth.CurrentUser(r); ok {
		vm.UserOrg = user.OrganizationName
	}
	if signedIn {
		vm.Nav = navFor(vm.CurrentPath, vm.IsAdmin)
	}
	return vm
}

// SetError sets the error banner. msg is escaped.
func (b *BaseVM) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// HasError reports whether an error banner is set.
func (b *BaseVM) HasError() bool { return b.Error != "" }

var pages = []NavItem{
	{Label: "Home", Href: "/home"},
	{Label: "Dashboard", Href: "/dashboard"},
	{Label: "Body Metrics", Href: "/body-metrics"},
	{Label: "Diet Planner", Href: "/planners/diet"},
	{Label: "Workout Planner", Href: "/planners/workout"},
	{Label: "Exercise Library", Href: "/exercises"},
	{Label: "Progress Tracker", Href: "/progress"},
}

func navFor(current string, admin bool) []NavItem {
	items := make([]NavItem, 0, len(pages)+1)
	for _, p := range pages {
		p.Active = current == p.Href
		items = append(items, p)
	}
	if admin {
		items = append(items, NavItem{Label: "Admin Panel", Href: "/admin", Active: current == "/admin"})
	}
	return items
}
