package domain

// Chrome identifies which layout shell a client should render.
type Chrome string

const (
	ChromePublic   Chrome = "public"
	ChromeAdmin    Chrome = "admin"
	ChromeEmployee Chrome = "employee"
)

// NavItem is one sidebar entry.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// ProfileBadge is the avatar block shown in the sidebar header.
type ProfileBadge struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// Shell describes the chrome for the current session.
type Shell struct {
	Chrome        Chrome        `json:"chrome"`
	Authenticated bool          `json:"authenticated"`
	Nav           []NavItem     `json:"nav"`
	Badge         *ProfileBadge `json:"badge,omitempty"`
}

var publicNav = []NavItem{
	{Label: "Home", Path: "/"},
	{Label: "About", Path: "/about"},
	{Label: "Sign in", Path: "/auth"},
}

var adminNav = []NavItem{
	{Label: "Dashboard", Path: "/admin"},
	{Label: "Post Job", Path: "/admin/post-job"},
	{Label: "My Jobs", Path: "/admin/my-jobs"},
	{Label: "Applications", Path: "/admin/applications"},
	{Label: "Update Status", Path: "/admin/update-status"},
	{Label: "Profile", Path: "/admin/profile"},
}

var employeeNav = []NavItem{
	{Label: "Browse Jobs", Path: "/employee/browse-jobs"},
	{Label: "Applied Jobs", Path: "/employee/applied-jobs"},
	{Label: "Profile", Path: "/employee/profile"},
}

// ShellFor picks the chrome for identity. A nil identity, or one with an
// unknown role, gets the public shell.
func ShellFor(identity *Identity) Shell {
	if identity == nil {
		return Shell{Chrome: ChromePublic, Nav: publicNav}
	}

	badge := &ProfileBadge{
		Name:       identity.Name,
		Email:      identity.Email,
		ProfilePic: identity.ProfilePic,
	}

	switch identity.Role {
	case RoleAdmin:
		return Shell{Chrome: ChromeAdmin, Authenticated: true, Nav: adminNav, Badge: badge}
	case RoleEmployee:
		return Shell{Chrome: ChromeEmployee, Authenticated: true, Nav: employeeNav, Badge: badge}
	default:
		return Shell{Chrome: ChromePublic, Nav: publicNav}
	}
}
