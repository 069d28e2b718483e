package model

import "time"

type User struct {
	ID             string    `json:"id"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty"`
}

// NeedsOnboarding reports whether the user has not joined an organization yet.
func (u *User) NeedsOnboarding() bool {
	return u.OrganizationID == nil || *u.OrganizationID == ""
}
