package user

import (
	"time"

	"talentx/internal/common"
)

type Role string

const (
	RoleEmployer Role = "employer"
	RoleTalent   Role = "talent"
)

func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleTalent
}

type User struct {
	ID           common.UUID `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         Role        `json:"role"`
	Skills       string      `json:"skills,omitempty"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}
