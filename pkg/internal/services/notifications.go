package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/wavelet-im/wavelet/pkg/internal/connections"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
)

// NewNotification records a notification for its recipient. Live delivery
// happens separately, after this write has landed.
func NewNotification(item models.Notification) (models.Notification, error) {
	if item.RecipientID == 0 {
		return item, &models.ValidationError{Reason: "notification requires a recipient"}
	}

	if err := database.C.Save(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func ListNotifications(user models.Account, take int, offset int) ([]models.Notification, error) {
	if take > 50 {
		take = 50
	}

	var items []models.Notification
	if err := database.C.
		Preload("Sender").
		Where("recipient_id = ?", user.ID).
		Order("created_at DESC").
		Limit(take).Offset(offset).
		Find(&items).Error; err != nil {
		return items, err
	}
	return items, nil
}

func MarkNotificationRead(id uint, user models.Account) (models.Notification, error) {
	var item models.Notification
	if err := database.C.
		Where("id = ? AND recipient_id = ?", id, user.ID).
		First(&item).Error; err != nil {
		return item, &models.NotFoundError{Resource: "notification", Err: err}
	}
	if item.Read {
		return item, nil
	}

	item.Read = true
	item.ReadAt = lo.ToPtr(time.Now())
	if err := database.C.Model(&item).Updates(map[string]any{
		"read":    item.Read,
		"read_at": item.ReadAt,
	}).Error; err != nil {
		return item, err
	}

	return item, nil
}

func MarkAllNotificationsRead(user models.Account) (int64, error) {
	result := database.C.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", user.ID, false).
		Updates(map[string]any{
			"read":    true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// NotifyAccount records a notification and, when the recipient is reachable
// right now, routes it to their live connection. Write-then-notify: the
// durable record always precedes the push.
func NotifyAccount(router *connections.Router, item models.Notification) (models.Notification, error) {
	item, err := NewNotification(item)
	if err != nil {
		return item, err
	}

	router.Dispatch(connections.Event{
		Kind: connections.EventNewNotification,
		Payload: map[string]any{
			"id":           item.ID,
			"kind":         item.Kind,
			"body":         item.Body,
			"post_id":      item.PostID,
			"sender_id":    item.SenderID,
			"recipient_id": item.RecipientID,
		},
	}, nil)

	log.Debug().Uint("recipient", item.RecipientID).Str("kind", item.Kind).Msg("Notified account.")

	return item, nil
}

// NotifyPostsPublished tells each author their scheduled post went live.
// Used as the publication engine's notification hook.
func NotifyPostsPublished(router *connections.Router, ids []uint) {
	var posts []models.Post
	if err := database.C.Where("id IN ?", ids).Find(&posts).Error; err != nil {
		log.Warn().Err(err).Msg("An error occurred when loading published posts...")
		return
	}

	for _, item := range posts {
		if _, err := NotifyAccount(router, models.Notification{
			Kind:        models.NotificationKindPostPublished,
			Body:        fmt.Sprintf("Your scheduled post #%d is now live.", item.ID),
			PostID:      lo.ToPtr(item.ID),
			RecipientID: item.AuthorID,
		}); err != nil {
			log.Warn().Err(err).Uint("post", item.ID).Msg("An error occurred when notifying the author...")
		}
	}
}
