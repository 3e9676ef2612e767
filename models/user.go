package models

import (
	"time"

	"salonbiz-backend/utils"

	"gorm.io/gorm"
)

type User struct {
	Base

	Username    string `gorm:"size:150;uniqueIndex;not null"`
	Email       string `gorm:"size:254;uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	FirstName   string `gorm:"size:150"`
	LastName    string `gorm:"size:150"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	IsActive    bool   `gorm:"not null;default:true"`

	LastLogin *time.Time
}

// Hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.Base.BeforeCreate(tx); err != nil {
		return err
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// RevokedToken records a refresh token id that may no longer be exchanged.
type RevokedToken struct {
	Base
	JTI       string    `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
