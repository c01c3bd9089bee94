package services

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"gorm.io/gorm"
)

func GetAccountWithID(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		return account, &models.NotFoundError{Resource: "account", Err: err}
	}
	return account, nil
}

func GetAccountWithName(name string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("name = ?", name).First(&account).Error; err != nil {
		return account, &models.NotFoundError{Resource: "account", Err: err}
	}
	return account, nil
}

func CountAccountFollowers(id uint) int64 {
	var count int64
	if err := database.C.Table("account_followers").
		Where("account_id = ?", id).
		Count(&count).Error; err != nil {
		return 0
	}
	return count
}

func IsAccountFollowing(user models.Account, target models.Account) bool {
	var count int64
	if err := database.C.Table("account_following").
		Where("account_id = ? AND following_id = ?", user.ID, target.ID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// ToggleAccountFollow follows target when no relation exists and unfollows
// otherwise. Both sides of the relation, the user's following set and the
// target's follower set, move inside one transaction or not at all.
func ToggleAccountFollow(user models.Account, target models.Account) (bool, error) {
	if user.ID == target.ID {
		return false, &models.ValidationError{Reason: "you cannot follow yourself"}
	}

	following := IsAccountFollowing(user, target)

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if following {
			if err := tx.Model(&user).Association("Following").Delete(&target); err != nil {
				return err
			}
			return tx.Model(&target).Association("Followers").Delete(&user)
		}
		if err := tx.Model(&user).Association("Following").Append(&target); err != nil {
			return err
		}
		return tx.Model(&target).Association("Followers").Append(&user)
	})
	if err != nil {
		return following, err
	}

	log.Debug().Uint("user", user.ID).Uint("target", target.ID).Bool("following", !following).
		Msg("Toggled follow relationship.")

	return !following, nil
}

// ToggleAccountBlock adds target to the user's block list, or removes it
// when already present.
func ToggleAccountBlock(user models.Account, target models.Account) (bool, error) {
	if user.ID == target.ID {
		return false, &models.ValidationError{Reason: "you cannot block yourself"}
	}

	blocked := lo.Contains(user.Blocked, target.ID)
	if blocked {
		user.Blocked = lo.Filter(user.Blocked, func(item uint, index int) bool {
			return item != target.ID
		})
	} else {
		user.Blocked = append(user.Blocked, target.ID)
	}

	if err := database.C.Model(&user).Update("blocked", user.Blocked).Error; err != nil {
		return blocked, err
	}

	return !blocked, nil
}
