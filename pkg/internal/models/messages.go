package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
)

// Message carries exactly one of a recipient or a group, never both and
// never neither. Content is immutable after creation; only the read state
// may transition afterwards.
type Message struct {
	BaseModel

	Content string     `json:"content"`
	Type    string     `json:"type"`
	Read    bool       `json:"read"`
	ReadAt  *time.Time `json:"read_at"`

	SenderID    uint     `json:"sender_id"`
	Sender      Account  `json:"sender"`
	RecipientID *uint    `json:"recipient_id"`
	Recipient   *Account `json:"recipient"`
	GroupID     *uint    `json:"group_id"`
	Group       *Group   `json:"group"`

	ConversationID uint `json:"conversation_id"`
}

func (v Message) Validate() error {
	if v.SenderID == 0 {
		return &ValidationError{Reason: "message requires a sender"}
	}
	if len(v.Content) == 0 {
		return &ValidationError{Reason: "message content is required"}
	}
	if len(v.Content) > 1000 {
		return &ValidationError{Reason: "message content cannot be longer than 1000 characters"}
	}
	if v.RecipientID != nil && v.GroupID != nil {
		return &ValidationError{Reason: "message cannot have both a recipient and a group"}
	}
	if v.RecipientID == nil && v.GroupID == nil {
		return &ValidationError{Reason: "message must have either a recipient or a group"}
	}
	return nil
}

func (v *Message) BeforeSave(tx *gorm.DB) error {
	return v.Validate()
}
