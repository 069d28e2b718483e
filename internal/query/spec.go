package query

// Route selects which task list view is active.
type Route int

const (
	RouteAll Route = iota
	RouteMine
	RouteTeam
)

// ParseRoute maps a view name or path to a Route. Anything unrecognized is
// the all-tasks view, deliberately, so stray paths never 404 the list.
func ParseRoute(s string) Route {
	switch s {
	case "mine", "my", "/tasks/mine":
		return RouteMine
	case "team", "/tasks/team":
		return RouteTeam
	case "all", "", "/tasks":
		return RouteAll
	default:
		return RouteAll
	}
}

func (r Route) String() string {
	switch r {
	case RouteMine:
		return "mine"
	case RouteTeam:
		return "team"
	default:
		return "all"
	}
}

// Title is the fixed page title for the view.
func (r Route) Title() string {
	switch r {
	case RouteMine:
		return "My Tasks"
	case RouteTeam:
		return "Team Tasks"
	default:
		return "All Tasks"
	}
}

// EmptyMessage is the fixed message shown when the view has no tasks.
func (r Route) EmptyMessage() string {
	switch r {
	case RouteMine:
		return "No tasks are assigned to you yet."
	case RouteTeam:
		return "No team tasks match the current filters."
	default:
		return "Get started by adding your first task."
	}
}

// Sentinel filter values.
const (
	CategoryAll        = "All"
	AssigneeUnassigned = "unassigned"
)

// Sort keys accepted by the builder.
const (
	SortByCreatedAt = "created_at"
	SortByDueDate   = "due_date"
	SortByCategory  = "category"
)

// Spec describes the desired view of tasks. Pure data.
type Spec struct {
	ShowCompleted bool
	Category      string
	SortBy        string
	SortOrder     string // "asc" or "desc"; anything else sorts descending
	// AssignedTo is honored on the team view only: "" means no override,
	// AssigneeUnassigned selects tasks with no assignee, any other value is
	// a user id.
	AssignedTo string
}

// DefaultSpec returns the view every list starts from: incomplete tasks,
// all categories, newest first.
func DefaultSpec() Spec {
	return Spec{
		ShowCompleted: false,
		Category:      CategoryAll,
		SortBy:        SortByCreatedAt,
		SortOrder:     "desc",
		AssignedTo:    "",
	}
}
