package models

import "gorm.io/gorm"

// User.Role holds the approval role: requester, approver, purchaser or admin.
type User struct {
	gorm.Model
	Username    string       `json:"username" gorm:"unique"`
	Password    string       `json:"-"`
	Name        string       `json:"name"`
	Email       string       `json:"email" gorm:"unique"`
	Role        string       `json:"role"`
	Department  string       `json:"department"`
	Roles       []Role       `json:"-" gorm:"many2many:user_roles;"`
	Permissions []Permission `json:"-" gorm:"many2many:user_permissions;"`
	CreatedBy   int
	UpdatedBy   int
	DeletedBy   int
}

type Role struct {
	gorm.Model
	Name        string
	Description string
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

type Permission struct {
	gorm.Model
	Name        string
	Description string
}

type LoginLog struct {
	gorm.Model
	SessionID     string `gorm:"index"`
	UserID        *uint
	Username      string
	IPAddress     string
	UserAgent     string
	LoginStatus   string
	FailureReason *string
}
