package models

import "time"

const (
	NotificationKindFollow        = "follow"
	NotificationKindPostLiked     = "post-liked"
	NotificationKindNewComment    = "new-comment"
	NotificationKindPostPublished = "post-published"
)

type Notification struct {
	BaseModel

	Kind   string     `json:"kind"`
	Body   string     `json:"body"`
	Read   bool       `json:"read"`
	ReadAt *time.Time `json:"read_at"`

	PostID      *uint    `json:"post_id"`
	SenderID    *uint    `json:"sender_id"`
	Sender      *Account `json:"sender"`
	RecipientID uint     `json:"recipient_id"`
}
