package domain

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Department   string    `json:"department"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// UserSummary is the directory view of a user: no credential material.
type UserSummary struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	Role       Role   `json:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Department: u.Department,
		Role:       u.Role,
	}
}
