package model

import "time"

type Organization struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	TargetLaunchDate *time.Time `json:"target_launch_date,omitempty"`
	City             *string    `json:"city,omitempty"`
	State            *string    `json:"state,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
