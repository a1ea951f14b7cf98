// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                 = "/"
	Login                = "/login"
	Signup               = "/signup"
	SignupValidate       = "/signup/validate"
	Logout               = "/logout"
	Health               = "/up"
	StaticPrefix         = "/static/"
	AppPrefix            = "/app/"
	AppDashboard         = "/app/dashboard"
	DashboardPrefix      = "/app/dashboard/"
	AppPortalsNew        = "/app/portals/new"
	PortalsPrefix        = "/app/portals/"
	AppPortalsCombobox   = "/app/portals/new/combobox"
	AppPortalsNext       = "/app/portals/new/next"
	AppPortalsBack       = "/app/portals/new/back"
	AppPortalsSubmit     = "/app/portals/new/submit"
	AppPortalsRest       = PortalsPrefix + "{rest...}"
	DashboardStatusQuery = "status"
)

// AppDashboardWithStatus returns the dashboard route filtered by status.
// Blank and "all" map to the unfiltered dashboard.
func AppDashboardWithStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" || status == "all" {
		return AppDashboard
	}
	values := url.Values{}
	values.Set(DashboardStatusQuery, status)
	return AppDashboard + "?" + values.Encode()
}

// IsAuthView reports whether path is one of the signed-out auth pages.
func IsAuthView(path string) bool {
	switch strings.TrimRight(strings.TrimSpace(path), "/") {
	case Login, Signup, SignupValidate:
		return true
	default:
		return false
	}
}

// IsProtected reports whether path lives under the signed-in app prefix.
func IsProtected(path string) bool {
	return strings.HasPrefix(path, AppPrefix)
}
