package domain

type MilestoneStatus string

const (
	MilestoneLocked     MilestoneStatus = "locked"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// ValidMilestoneStatuses is the canonical set of accepted status strings.
var ValidMilestoneStatuses = map[string]bool{
	"locked": true, "in_progress": true, "completed": true,
}

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggled returns the other theme. Unknown values flip to dark.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type View string

const (
	ViewDashboard View = "dashboard"
	ViewRoadmap   View = "roadmap"
	ViewProgress  View = "progress"
	ViewProfile   View = "profile"
)

// ValidViews is the canonical set of accepted view identifiers.
var ValidViews = map[string]bool{
	"dashboard": true, "roadmap": true, "progress": true, "profile": true,
}
