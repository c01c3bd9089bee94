package services

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
)

type ModerationResult struct {
	Approved bool
	Reason   *string
}

var defaultBlockedKeywords = []string{"violence", "hate", "spam", "inappropriate"}

// ScreenPostContent runs the keyword screen over a post's content.
func ScreenPostContent(content string) ModerationResult {
	keywords := viper.GetStringSlice("moderation.blocked_keywords")
	if len(keywords) == 0 {
		keywords = defaultBlockedKeywords
	}

	probe := strings.ToLower(content)
	if keyword, hit := lo.Find(keywords, func(item string) bool {
		return strings.Contains(probe, strings.ToLower(item))
	}); hit {
		return ModerationResult{
			Approved: false,
			Reason:   lo.ToPtr(fmt.Sprintf("content contains blocked keyword %q", keyword)),
		}
	}

	return ModerationResult{Approved: true}
}

// ModeratePost screens the post and records the verdict. A rejection
// unpublishes the post no matter its schedule.
func ModeratePost(item *models.Post) error {
	result := ScreenPostContent(item.Content)

	if result.Approved {
		item.ModerationStatus = models.ModerationApproved
	} else {
		item.ModerationStatus = models.ModerationRejected
		item.ModerationReason = result.Reason
		item.IsPublished = false
	}

	return database.C.Model(item).Updates(map[string]any{
		"moderation_status": item.ModerationStatus,
		"moderation_reason": item.ModerationReason,
		"is_published":      item.IsPublished,
	}).Error
}
