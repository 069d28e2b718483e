package service

import "errors"

// Domain errors surfaced as inline messages at the HTTP edge.
var (
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrTitleRequired       = errors.New("task title is required")
	ErrClinicNameRequired  = errors.New("clinic name is required")
	ErrLaunchDateRequired  = errors.New("target launch date is required")
	ErrAlreadyOnboarded    = errors.New("organization already set up")
	ErrSubtasksIncomplete  = errors.New("all subtasks must be completed first")
	ErrMemberLimit         = errors.New("organization is limited to 3 members")
	ErrNameRequired        = errors.New("organization name is required")
	ErrStateTooLong        = errors.New("state must be a two-letter code")
	ErrCommentEmpty        = errors.New("comment content is required")
	ErrInvalidCategory     = errors.New("unknown task category")
	ErrNoOrganization      = errors.New("user has no organization")
	ErrInviteEmailRequired = errors.New("invite email is required")
)
