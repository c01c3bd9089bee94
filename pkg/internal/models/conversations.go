package models

import (
	"gorm.io/gorm"
)

type Group struct {
	BaseModel

	Name    string    `json:"name"`
	Members []Account `json:"members" gorm:"many2many:group_members"`

	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`
}

// Conversation is either a private chat between exactly two participants or
// the channel of a group. The IsGroup flag and the group reference must
// always agree.
type Conversation struct {
	BaseModel

	Participants []Account `json:"participants" gorm:"many2many:conversation_participants"`
	IsGroup      bool      `json:"is_group"`

	GroupID *uint  `json:"group_id"`
	Group   *Group `json:"group"`

	LastMessageID *uint    `json:"last_message_id"`
	LastMessage   *Message `json:"last_message"`
}

func (v Conversation) Validate() error {
	if v.IsGroup && v.GroupID == nil {
		return &ValidationError{Reason: "group conversations require a group"}
	}
	if !v.IsGroup && v.GroupID != nil {
		return &ValidationError{Reason: "private conversations cannot refer to a group"}
	}
	return nil
}

func (v *Conversation) BeforeSave(tx *gorm.DB) error {
	return v.Validate()
}
