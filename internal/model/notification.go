package model

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a row in the user's notification feed. When DeleteRequestID
// is set the row doubles as a pending deletion and RecordType/RecordID point at
// the record awaiting confirmation.
type Notification struct {
	ID              int64       `gorm:"primaryKey"                         json:"id"`
	UserID          int64       `gorm:"not null;index"                     json:"user_id"`
	Message         string      `gorm:"type:varchar(255);not null"         json:"message"`
	NotifyOn        time.Time   `gorm:"type:date;not null"                 json:"date"`
	NotifyAt        string      `gorm:"type:time;not null"                 json:"time"`
	CreatedAt       time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	DeleteRequestID *string     `gorm:"type:varchar(36);uniqueIndex"       json:"delete_request_id,omitempty"`
	RecordType      *RecordType `gorm:"type:varchar(20)"                   json:"record_type,omitempty"`
	RecordID        *int64      `json:"record_id,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

// IsPendingDelete reports whether the row carries an unconfirmed deletion.
func (n *Notification) IsPendingDelete() bool {
	return n.DeleteRequestID != nil && n.RecordType != nil && n.RecordID != nil
}

func (n *Notification) AfterFind(_ *gorm.DB) error {
	n.NotifyAt = NormalizeClock(n.NotifyAt)
	return nil
}
