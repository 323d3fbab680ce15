package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	MobileNumber string    `json:"mobile_number"`
	Address      string    `json:"address"`
	Role         Role      `gorm:"type:varchar(10);not null;index" json:"role"`
	IsApproved   bool      `gorm:"not null;default:false" json:"is_approved"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
