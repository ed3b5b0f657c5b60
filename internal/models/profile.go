package models

import "time"

// Profile roles.
const (
	RoleTutor   = "tutor"
	RoleStudent = "student"
)

type Profile struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (p Profile) IsStudent() bool { return p.Role == RoleStudent }
func (p Profile) IsTutor() bool   { return p.Role == RoleTutor }
