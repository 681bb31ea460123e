package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserTypeCreator  = "creator"
	UserTypeConsumer = "consumer"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	UserType  string     `gorm:"default:'consumer';not null" json:"user_type"` // "creator" or "consumer"
	IsStaff   bool       `gorm:"default:false" json:"is_staff"`
	IsSuper   bool       `gorm:"column:is_superuser;default:false" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// CanUpload reports whether this user may create videos. Only the creator
// role uploads; consumers browse, rate and comment.
func (user *User) CanUpload() bool {
	return user.UserType == UserTypeCreator
}

// IsAdmin reports whether this user may access the admin statistics.
func (user *User) IsAdmin() bool {
	return user.IsStaff || user.IsSuper
}

func ValidUserType(t string) bool {
	return t == UserTypeCreator || t == UserTypeConsumer
}

func (User) TableName() string {
	return "users"
}
