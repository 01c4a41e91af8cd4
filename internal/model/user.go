package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`
	// Accounts start unvalidated; an admin flips this before the user can log in.
	Validated            bool       `gorm:"default:false" json:"validated"`
	AccessibleCategories []Category `gorm:"many2many:user_accessible_categories" json:"accessibleCategories,omitempty"`
	ResetToken           string     `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry     *time.Time `json:"-"`
	LastSeen             time.Time  `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
