package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Name         string         `json:"name"`
	Role         string         `json:"role" gorm:"not null;default:'student'"` // "student", "teacher", "admin"
	Language     string         `json:"language" gorm:"not null;default:'ru'"`  // "ru", "kk"
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanAuthor reports whether the user may create and import tests.
func (u *User) CanAuthor() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}
