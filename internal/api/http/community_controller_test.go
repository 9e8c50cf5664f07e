package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityFlow(t *testing.T) {
	srv := newTestServer(t)
	creator := srv.signup(t, "karim", "owner")
	member := srv.signup(t, "rahim", "renter")

	rec := srv.do(t, http.MethodPost, "/api/communities", creator.Token, gin.H{"name": "Dhanmondi renters"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Community struct {
			ID          uuid.UUID `json:"id"`
			MemberCount int       `json:"memberCount"`
		} `json:"community"`
	}
	decode(t, rec, &created)
	assert.Equal(t, 1, created.Community.MemberCount)
	base := "/api/communities/" + created.Community.ID.String()

	rec = srv.do(t, http.MethodPost, base+"/posts", member.Token, gin.H{"content": "anyone near lake?"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, base+"/join", member.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, base+"/posts", member.Token, gin.H{"content": "anyone near lake?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post struct {
		Post struct {
			ID uuid.UUID `json:"id"`
		} `json:"post"`
	}
	decode(t, rec, &post)
	postPath := "/api/posts/" + post.Post.ID.String()

	rec = srv.do(t, http.MethodPost, postPath+"/like", creator.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"liked":true,"likeCount":1}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, postPath+"/like", creator.Token, nil)
	assert.JSONEq(t, `{"liked":false,"likeCount":0}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, postPath+"/comments", creator.Token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text is required", errorOf(t, rec))

	rec = srv.do(t, http.MethodPost, postPath+"/comments", creator.Token, gin.H{"text": "yes, road 27"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment struct {
		Comment struct {
			ID uuid.UUID `json:"id"`
		} `json:"comment"`
	}
	decode(t, rec, &comment)

	replies := "/api/comments/" + comment.Comment.ID.String() + "/replies"
	rec = srv.do(t, http.MethodPost, replies, member.Token, gin.H{"text": "thanks"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, replies, creator.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Replies []struct {
			Text string `json:"text"`
		} `json:"replies"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Replies, 1)
	assert.Equal(t, "thanks", list.Replies[0].Text)
}
