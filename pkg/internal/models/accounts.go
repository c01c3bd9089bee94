package models

import (
	"gorm.io/datatypes"
)

type Account struct {
	BaseModel

	Name   string  `json:"name" gorm:"uniqueIndex"`
	Nick   string  `json:"nick"`
	Bio    string  `json:"bio"`
	Avatar *string `json:"avatar"`

	Followers []Account `json:"followers" gorm:"many2many:account_followers;joinForeignKey:AccountID;joinReferences:FollowerID"`
	Following []Account `json:"following" gorm:"many2many:account_following;joinForeignKey:AccountID;joinReferences:FollowingID"`

	Blocked datatypes.JSONSlice[uint] `json:"blocked_list"`
}
