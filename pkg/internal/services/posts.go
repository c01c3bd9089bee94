package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"gorm.io/gorm"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags pulls the lowercased, deduplicated hashtags out of a
// post's content.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	return lo.Uniq(lo.Map(matches, func(item []string, index int) string {
		return strings.ToLower(item[1])
	}))
}

func FilterPostPublished(tx *gorm.DB) *gorm.DB {
	return tx.
		Where("is_published = ?", true).
		Where("moderation_status <> ?", models.ModerationRejected)
}

func FilterPostWithAuthor(tx *gorm.DB, uid uint) *gorm.DB {
	return tx.Where("author_id = ?", uid)
}

func FilterPostWithHashtag(tx *gorm.DB, tag string) *gorm.DB {
	return tx.Where("CAST(hashtags AS TEXT) LIKE ?", "%\""+strings.ToLower(tag)+"\"%")
}

func PreloadPostGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Comments").
		Preload("Comments.Account").
		Preload("RepostTo").
		Preload("RepostTo.Author")
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadPostGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, &models.NotFoundError{Resource: "post", Err: err}
	}
	return item, nil
}

func ListPost(tx *gorm.DB, take int, offset int) ([]models.Post, error) {
	if take > 100 {
		take = 100
	}

	var items []models.Post
	if err := PreloadPostGeneral(tx).
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}
	return items, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

// NewPost persists a post for the given author. A post scheduled for the
// future starts unpublished and waits for the publication engine; anything
// else is published right away. The content is screened afterwards and a
// rejection forces the post back to unpublished regardless of schedule.
func NewPost(author models.Account, item models.Post) (models.Post, error) {
	if len(item.Content) == 0 {
		return item, &models.ValidationError{Reason: "post content is required"}
	}

	item.AuthorID = author.ID
	item.Hashtags = ExtractHashtags(item.Content)
	item.Language = DetectLanguage(item.Content)
	item.ModerationStatus = models.ModerationPending
	item.IsPublished = item.ScheduledAt == nil || !item.ScheduledAt.After(time.Now())

	if item.RepostID != nil {
		var repostTo models.Post
		if err := database.C.Where("id = ?", item.RepostID).First(&repostTo).Error; err != nil {
			return item, &models.NotFoundError{Resource: "repost target", Err: err}
		}
	}

	if err := database.C.Save(&item).Error; err != nil {
		return item, err
	}

	if err := ModeratePost(&item); err != nil {
		log.Warn().Err(err).Uint("post", item.ID).Msg("An error occurred when moderating post...")
	}

	return item, nil
}

// ToggleLikePost adds or removes the user's like and reports the new state
// plus the resulting like count.
func ToggleLikePost(user models.Account, item models.Post) (bool, int, error) {
	liked := lo.Contains(item.Likes, user.ID)
	if liked {
		item.Likes = lo.Filter(item.Likes, func(entry uint, index int) bool {
			return entry != user.ID
		})
	} else {
		item.Likes = append(item.Likes, user.ID)
	}

	if err := database.C.Model(&item).Update("likes", item.Likes).Error; err != nil {
		return liked, len(item.Likes), err
	}

	return !liked, len(item.Likes), nil
}

func NewComment(user models.Account, item models.Post, content string) (models.Comment, error) {
	if len(content) == 0 {
		return models.Comment{}, &models.ValidationError{Reason: "comment content is required"}
	}

	comment := models.Comment{
		Content:   content,
		PostID:    item.ID,
		AccountID: user.ID,
	}

	if err := database.C.Save(&comment).Error; err != nil {
		return comment, err
	}

	return comment, nil
}
