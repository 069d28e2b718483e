package query

import (
	"fmt"
	"strings"
)

// Query is the assembled fetch request for one task list view. Where and
// OrderBy are SQL fragments over the tasks table aliased as t; Args are the
// positional arguments referenced by Where.
type Query struct {
	OrganizationID string
	// Empty means no organization scope was available; callers must not
	// execute the query and should treat the result as zero tasks.
	Empty   bool
	Where   string
	Args    []any
	OrderBy string
}

// Build maps a filter spec plus route context into a concrete task query.
// It never fails: missing inputs degrade to an empty-result query. Tenancy
// scope is always the first constraint, so a cross-organization read cannot
// be expressed.
func Build(spec Spec, route Route, currentUserID, organizationID string) Query {
	if organizationID == "" {
		return Query{Empty: true}
	}

	conds := []string{"t.organization_id = $1"}
	args := []any{organizationID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch route {
	case RouteMine:
		conds = append(conds, "t.assigned_to = "+arg(currentUserID))
	case RouteTeam:
		// Exactly one assignee constraint is active: the explicit filter,
		// when set, replaces the exclude-self base rule.
		switch spec.AssignedTo {
		case "":
			conds = append(conds, "t.assigned_to IS DISTINCT FROM "+arg(currentUserID))
		case AssigneeUnassigned:
			conds = append(conds, "t.assigned_to IS NULL")
		default:
			conds = append(conds, "t.assigned_to = "+arg(spec.AssignedTo))
		}
	}

	if spec.Category != "" && spec.Category != CategoryAll {
		conds = append(conds, "t.category = "+arg(spec.Category))
	}

	if !spec.ShowCompleted {
		conds = append(conds, "t.is_completed = FALSE")
	}

	return Query{
		OrganizationID: organizationID,
		Where:          strings.Join(conds, " AND "),
		Args:           args,
		OrderBy:        orderBy(spec.SortBy, spec.SortOrder),
	}
}

func orderBy(sortBy, sortOrder string) string {
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}

	switch sortBy {
	case SortByDueDate:
		// Tasks without a due date always sort last, whichever direction.
		return fmt.Sprintf("t.due_date %s NULLS LAST, t.id ASC", dir)
	case SortByCategory:
		return fmt.Sprintf("t.category %s, t.id ASC", dir)
	case SortByCreatedAt:
		return fmt.Sprintf("t.created_at %s, t.id ASC", dir)
	default:
		return "t.created_at DESC, t.id ASC"
	}
}
