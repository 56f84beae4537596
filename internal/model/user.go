package model

import "time"

// User is an account holder.
type User struct {
	ID           int64     `gorm:"primaryKey"                         json:"id"`
	Name         string    `gorm:"type:varchar(100);not null"         json:"name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex"      json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"         json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (User) TableName() string { return "users" }

// DeviceToken is a push registration belonging to a user.
type DeviceToken struct {
	ID        int64     `gorm:"primaryKey"                         json:"id"`
	UserID    int64     `gorm:"not null;index"                     json:"user_id"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex"      json:"token"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (DeviceToken) TableName() string { return "device_tokens" }
