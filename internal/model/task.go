package model

import "time"

// Categories a task can carry. "All" is a filter value only, never stored.
var TaskCategories = []string{
	"General",
	"Legal",
	"Financial",
	"Marketing",
	"Operations",
	"Clinical",
	"Technology",
	"Insurance",
}

type Task struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	Priority       int        `json:"priority"`
	IsCompleted    bool       `json:"is_completed"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Resources      *string    `json:"resources,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	IsPreloaded    bool       `json:"is_preloaded"`
	CreatedBy      *string    `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	AssignedUser  *User     `json:"assigned_user,omitempty"`
	CreatedByUser *User     `json:"created_by_user,omitempty"`
	Subtasks      []Subtask `json:"subtasks,omitempty"`
}

// AllSubtasksCompleted reports whether every subtask is done. Tasks without
// subtasks count as completed for the completion gate.
func (t *Task) AllSubtasksCompleted() bool {
	for _, st := range t.Subtasks {
		if !st.IsCompleted {
			return false
		}
	}
	return true
}

type Subtask struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `json:"user,omitempty"`
}

// ValidCategory reports whether c is one of the fixed category menu entries.
func ValidCategory(c string) bool {
	for _, known := range TaskCategories {
		if c == known {
			return true
		}
	}
	return false
}
