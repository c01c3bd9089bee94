package services

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
)

func TestExtractHashtags(t *testing.T) {
	assert.Empty(t, ExtractHashtags("no tags here"))
	assert.Equal(t, []string{"golang", "social"}, ExtractHashtags("learning #golang for my #social app #GOLANG"))
}

func TestNewPostPublishesImmediately(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")

	item, err := NewPost(alice, models.Post{Content: "good morning #coffee"})
	require.NoError(t, err)

	assert.True(t, item.IsPublished)
	assert.Equal(t, models.ModerationApproved, item.ModerationStatus)
	assert.Equal(t, []string{"coffee"}, []string(item.Hashtags))
}

func TestNewPostScheduledStartsUnpublished(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")

	item, err := NewPost(alice, models.Post{
		Content:     "see you tomorrow",
		ScheduledAt: lo.ToPtr(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	assert.False(t, item.IsPublished)
}

func TestNewPostScheduledInThePast(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")

	item, err := NewPost(alice, models.Post{
		Content:     "late already",
		ScheduledAt: lo.ToPtr(time.Now().Add(-time.Hour)),
	})
	require.NoError(t, err)

	assert.True(t, item.IsPublished)
}

func TestNewPostModerationRejectionUnpublishes(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")

	item, err := NewPost(alice, models.Post{Content: "this is spam honestly"})
	require.NoError(t, err)

	// Rejection forces the post out of publication regardless of schedule.
	assert.Equal(t, models.ModerationRejected, item.ModerationStatus)
	require.NotNil(t, item.ModerationReason)
	assert.False(t, item.IsPublished)

	var stored models.Post
	require.NoError(t, database.C.Where("id = ?", item.ID).First(&stored).Error)
	assert.False(t, stored.IsPublished)
	assert.Equal(t, models.ModerationRejected, stored.ModerationStatus)
}

func TestToggleLikePost(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")

	item, err := NewPost(alice, models.Post{Content: "like me"})
	require.NoError(t, err)

	liked, count, err := ToggleLikePost(bob, item)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	stored, err := GetPost(database.C, item.ID)
	require.NoError(t, err)

	liked, count, err = ToggleLikePost(bob, stored)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)
}

func TestFilterPostPublishedHidesRejectedAndScheduled(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")

	visible, err := NewPost(alice, models.Post{Content: "hello world"})
	require.NoError(t, err)
	_, err = NewPost(alice, models.Post{Content: "this is spam honestly"})
	require.NoError(t, err)
	_, err = NewPost(alice, models.Post{
		Content:     "later",
		ScheduledAt: lo.ToPtr(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	items, err := ListPost(FilterPostPublished(database.C), 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID, items[0].ID)
}

func TestNewComment(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")

	item, err := NewPost(alice, models.Post{Content: "discuss"})
	require.NoError(t, err)

	comment, err := NewComment(bob, item, "first!")
	require.NoError(t, err)
	assert.Equal(t, item.ID, comment.PostID)

	_, err = NewComment(bob, item, "")
	var invalid *models.ValidationError
	require.ErrorAs(t, err, &invalid)

	loaded, err := GetPost(database.C, item.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Comments, 1)
	assert.Equal(t, "first!", loaded.Comments[0].Content)
}

func TestScreenPostContent(t *testing.T) {
	approved := ScreenPostContent("a perfectly fine post")
	assert.True(t, approved.Approved)

	rejected := ScreenPostContent("nothing but HATE")
	assert.False(t, rejected.Approved)
	require.NotNil(t, rejected.Reason)
}
