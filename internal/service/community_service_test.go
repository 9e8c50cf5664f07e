package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityMembershipAndPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t, "karim", domain.RoleOwner)
	member := env.user(t, "rahim", domain.RoleRenter)
	outsider := env.user(t, "jamal", domain.RoleRenter)

	community, err := env.community.CreateCommunity(ctx, creator.ID, "Dhanmondi Tenants", "Tips and flat shares")
	require.NoError(t, err)
	assert.Equal(t, 1, community.MemberCount)

	_, err = env.community.CreateCommunity(ctx, member.ID, "dhanmondi tenants", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	joined, err := env.community.Join(ctx, member.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, joined.MemberCount)

	joined, err = env.community.Join(ctx, member.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, joined.MemberCount)

	_, err = env.community.CreatePost(ctx, outsider.ID, community.ID, "hello")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	post, err := env.community.CreatePost(ctx, member.ID, community.ID, "Anyone looking for a flatmate?")
	require.NoError(t, err)
	require.NotNil(t, post.Author)
	assert.Equal(t, "rahim", post.Author.Name)

	got, err := env.community.GetCommunity(ctx, community.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostCount)

	left, err := env.community.Leave(ctx, member.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, left.MemberCount)

	left, err = env.community.Leave(ctx, member.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, left.MemberCount)

	_, err = env.community.Join(ctx, member.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := env.community.ListCommunities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPostLikesCommentsAndReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t, "karim", domain.RoleOwner)
	reader := env.user(t, "rahim", domain.RoleRenter)

	community, err := env.community.CreateCommunity(ctx, creator.ID, "Mirpur Owners", "")
	require.NoError(t, err)
	post, err := env.community.CreatePost(ctx, creator.ID, community.ID, "Water supply schedule")
	require.NoError(t, err)

	liked, count, err := env.community.ToggleLike(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	posts, err := env.community.ListPosts(ctx, reader.ID, community.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Liked)

	posts, err = env.community.ListPosts(ctx, creator.ID, community.ID)
	require.NoError(t, err)
	assert.False(t, posts[0].Liked)

	liked, count, err = env.community.ToggleLike(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, count)

	_, _, err = env.community.ToggleLike(ctx, reader.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.community.AddComment(ctx, reader.ID, post.ID, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	comment, err := env.community.AddComment(ctx, reader.ID, post.ID, "Thanks for sharing")
	require.NoError(t, err)
	assert.Equal(t, "rahim", comment.Author.Name)

	reply, err := env.community.AddReply(ctx, creator.ID, comment.ID, "You're welcome")
	require.NoError(t, err)
	assert.Equal(t, comment.ID, reply.CommentID)

	_, err = env.community.AddReply(ctx, creator.ID, uuid.New(), "lost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	comments, err := env.community.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, 1, comments[0].ReplyCount)

	replies, err := env.community.ListReplies(ctx, comment.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "karim", replies[0].Author.Name)

	posts, err = env.community.ListPosts(ctx, reader.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, posts[0].CommentCount)
}
