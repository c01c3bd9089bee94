package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/wavelet-im/wavelet/pkg/internal/connections"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/http/exts"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"github.com/wavelet-im/wavelet/pkg/internal/services"
	"gorm.io/datatypes"
)

func listPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx := services.FilterPostPublished(database.C)
	if author := c.QueryInt("author", 0); author > 0 {
		tx = services.FilterPostWithAuthor(tx, uint(author))
	}
	if tag := c.Query("hashtag"); len(tag) > 0 {
		tx = services.FilterPostWithHashtag(tx, tag)
	}

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(tx, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId")

	item, err := services.GetPost(services.FilterPostPublished(database.C), uint(id))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(item)
}

func createPost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Content       string            `json:"content" validate:"required,max=4096"`
		MediaURL      *string           `json:"media_url"`
		Poll          datatypes.JSONMap `json:"poll"`
		RepostTo      *uint             `json:"repost_to"`
		RepostComment *string           `json:"repost_comment"`
		ScheduledAt   *time.Time        `json:"scheduled_at"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item := models.Post{
		Content:       data.Content,
		MediaURL:      data.MediaURL,
		Poll:          data.Poll,
		RepostID:      data.RepostTo,
		RepostComment: data.RepostComment,
		ScheduledAt:   data.ScheduledAt,
	}

	item, err := services.NewPost(user, item)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(item)
}

func likePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	id, _ := c.ParamsInt("postId")
	item, err := services.GetPost(services.FilterPostPublished(database.C), uint(id))
	if err != nil {
		return mapDomainError(err)
	}

	liked, count, err := services.ToggleLikePost(user, item)
	if err != nil {
		return mapDomainError(err)
	}

	// The like is durable at this point; the fan-out below is best-effort.
	if liked {
		Router.Dispatch(connections.Event{
			Kind: connections.EventPostLiked,
			Payload: map[string]any{
				"post_id":    item.ID,
				"liker_id":   user.ID,
				"like_count": count,
			},
		}, originOf(user))

		if item.AuthorID != user.ID {
			_, _ = services.NotifyAccount(Router, models.Notification{
				Kind:        models.NotificationKindPostLiked,
				Body:        fmt.Sprintf("%s liked your post.", user.Name),
				PostID:      lo.ToPtr(item.ID),
				SenderID:    lo.ToPtr(user.ID),
				RecipientID: item.AuthorID,
			})
		}
	}

	return c.JSON(fiber.Map{
		"liked":      liked,
		"like_count": count,
	})
}

func createComment(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	id, _ := c.ParamsInt("postId")
	item, err := services.GetPost(services.FilterPostPublished(database.C), uint(id))
	if err != nil {
		return mapDomainError(err)
	}

	var data struct {
		Content string `json:"content" validate:"required,max=1024"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	comment, err := services.NewComment(user, item, data.Content)
	if err != nil {
		return mapDomainError(err)
	}

	Router.Dispatch(connections.Event{
		Kind: connections.EventNewComment,
		Payload: map[string]any{
			"post_id":      item.ID,
			"content":      comment.Content,
			"commenter_id": user.ID,
		},
	}, originOf(user))

	if item.AuthorID != user.ID {
		_, _ = services.NotifyAccount(Router, models.Notification{
			Kind:        models.NotificationKindNewComment,
			Body:        fmt.Sprintf("%s commented on your post.", user.Name),
			PostID:      lo.ToPtr(item.ID),
			SenderID:    lo.ToPtr(user.ID),
			RecipientID: item.AuthorID,
		})
	}

	return c.JSON(comment)
}
