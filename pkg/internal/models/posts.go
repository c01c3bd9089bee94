package models

import (
	"time"

	"gorm.io/datatypes"
)

type ModerationStatus = string

const (
	ModerationPending  = ModerationStatus("pending")
	ModerationApproved = ModerationStatus("approved")
	ModerationRejected = ModerationStatus("rejected")
)

// Post lifecycle: created pending moderation with IsPublished set to the
// inverse of being scheduled; a scheduled post is flipped to published
// exactly once by the publication engine. A moderation rejection forces
// IsPublished back to false regardless of schedule.
type Post struct {
	BaseModel

	Content  string  `json:"content"`
	Language string  `json:"language"`
	MediaURL *string `json:"media_url"`

	Hashtags datatypes.JSONSlice[string] `json:"hashtags"`
	Likes    datatypes.JSONSlice[uint]   `json:"likes"`
	Comments []Comment                   `json:"comments" gorm:"foreignKey:PostID"`
	Poll     datatypes.JSONMap           `json:"poll"`

	RepostID      *uint   `json:"repost_id"`
	RepostTo      *Post   `json:"repost_to" gorm:"foreignKey:RepostID"`
	RepostComment *string `json:"repost_comment"`

	ScheduledAt *time.Time `json:"scheduled_at"`
	IsPublished bool       `json:"is_published"`

	ModerationStatus ModerationStatus `json:"moderation_status"`
	ModerationReason *string          `json:"moderation_reason"`

	AuthorID uint    `json:"author_id"`
	Author   Account `json:"author"`
}

type Comment struct {
	BaseModel

	Content string `json:"content"`

	PostID    uint    `json:"post_id"`
	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`
}
