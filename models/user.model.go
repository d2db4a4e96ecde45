package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Fullname  string     `json:"fullname" gorm:"default:''"`
	Email     string     `json:"email" gorm:"unique;not null"`
	Mobile    string     `json:"mobile" gorm:"default:''"`
	Role      string     `json:"role" gorm:"default:'user'"` // user, admin
	Password  string     `json:"-" gorm:"not null"`
	UserPhoto string     `json:"user_photo"`
	LastLogin *time.Time `json:"last_login"`
	IsDeleted bool       `gorm:"default:false"`
}
