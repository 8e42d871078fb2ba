package models

import "time"

// User represents a registered user. Products reference users as their owner;
// authentication itself is handled by the auth service.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255)" validate:"required,min=1"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	Roles     []string  `json:"roles" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
