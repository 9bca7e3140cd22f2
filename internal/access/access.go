// Package access holds the single role to page table that drives both
// navigation and page gating.
package access

import (
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
)

// Page is one route of the dashboard.
type Page struct {
	Path   string             `json:"path"`
	Label  string             `json:"label"`
	Public bool               `json:"public,omitempty"`
	Roles  []application.Role `json:"roles,omitempty"`
}

// Allows reports whether role may open the page.
func (p Page) Allows(role application.Role) bool {
	if p.Public {
		return true
	}
	for _, allowed := range p.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Fallback routes used by gate redirects.
const (
	LandingPath   = "/"
	DashboardPath = "/dashboard"
)

var (
	student = application.RoleStudent
	mess    = application.RoleMess
	office  = application.RoleOffice
)

// pages lists every route in navigation order.
var pages = []Page{
	{Path: LandingPath, Label: "Home", Public: true},
	{Path: DashboardPath, Label: "Dashboard", Roles: []application.Role{student, mess, office}},
	{Path: "/outpass", Label: "Outpass", Roles: []application.Role{student}},
	{Path: "/menu", Label: "Mess Menu", Roles: []application.Role{student}},
	{Path: "/outpass-requests", Label: "Outpass Requests", Roles: []application.Role{office}},
	{Path: "/students", Label: "Students", Roles: []application.Role{office}},
	{Path: "/menu-manager", Label: "Menu Manager", Roles: []application.Role{mess}},
	{Path: "/attendance", Label: "Attendance", Roles: []application.Role{mess}},
	{Path: "/announcements", Label: "Announcements", Roles: []application.Role{office, mess}},
	{Path: "/complaints", Label: "Complaints", Roles: []application.Role{student, office, mess}},
}

// Pages returns a copy of the page table.
func Pages() []Page {
	out := make([]Page, len(pages))
	for i, page := range pages {
		page.Roles = append([]application.Role(nil), page.Roles...)
		out[i] = page
	}
	return out
}

// Lookup finds the page registered for path. Trailing slashes are ignored.
func Lookup(path string) (Page, bool) {
	path = normalizePath(path)
	for _, page := range pages {
		if page.Path == path {
			return page, true
		}
	}
	return Page{}, false
}

// Decision is the outcome of a gate check. Exactly one of Allowed, NotFound
// or a non-empty Redirect holds.
type Decision struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	NotFound bool   `json:"notFound,omitempty"`
}

// Decide gates a page visit. Unknown paths are not found; public pages are
// always allowed; anonymous visitors go to the landing page; a role outside
// the page's set goes to the dashboard.
func Decide(authenticated bool, role application.Role, path string) Decision {
	path = normalizePath(path)
	page, ok := Lookup(path)
	switch {
	case !ok:
		return Decision{Path: path, NotFound: true}
	case page.Public:
		return Decision{Path: path, Allowed: true}
	case !authenticated:
		return Decision{Path: path, Redirect: LandingPath}
	case !page.Allows(role):
		return Decision{Path: path, Redirect: DashboardPath}
	}
	return Decision{Path: path, Allowed: true}
}

// Navigation lists the non-public pages role can open, in table order.
func Navigation(role application.Role) []Page {
	out := make([]Page, 0, len(pages))
	for _, page := range pages {
		if page.Public || !page.Allows(role) {
			continue
		}
		page.Roles = append([]application.Role(nil), page.Roles...)
		out = append(out, page)
	}
	return out
}

// AnyAllows reports whether role may open at least one of paths.
func AnyAllows(role application.Role, paths ...string) bool {
	for _, path := range paths {
		if page, ok := Lookup(path); ok && page.Allows(role) {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return LandingPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = LandingPath
		}
	}
	return path
}
