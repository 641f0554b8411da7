package models

import (
	"time"
)

// Message model for staff-to-staff messaging. Sender and recipient are user
// accounts, not patients.
type Message struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	SenderID    int64     `gorm:"column:sender_id;not null;index" json:"sender_id"`
	RecipientID int64     `gorm:"column:recipient_id;not null;index" json:"recipient_id"`
	Subject     string    `gorm:"column:subject;not null" json:"subject"`
	Body        string    `gorm:"column:body;not null" json:"body"`
	Read        bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	Sender      User      `gorm:"foreignKey:SenderID;references:ID" json:"-"`
	Recipient   User      `gorm:"foreignKey:RecipientID;references:ID" json:"-"`
}

func (Message) TableName() string {
	return "message"
}
