package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type CommunityController struct {
	communities service.CommunityInteractor
	log         *slog.Logger
}

func NewCommunityController(communities service.CommunityInteractor, log *slog.Logger) *CommunityController {
	return &CommunityController{communities: communities, log: log}
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

func (c *CommunityController) Create(ctx *gin.Context) {
	type request struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req request
	if !bindJSON(ctx, &req) {
		return
	}

	community, err := c.communities.CreateCommunity(ctx.Request.Context(), principal(ctx).ID, req.Name, req.Description)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"community": community})
}

func (c *CommunityController) List(ctx *gin.Context) {
	communities, err := c.communities.ListCommunities(ctx.Request.Context())
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"communities": communities})
}

func (c *CommunityController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "communityID")
	if !ok {
		return
	}

	community, err := c.communities.GetCommunity(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"community": community})
}

func (c *CommunityController) Join(ctx *gin.Context) {
	id, ok := pathID(ctx, "communityID")
	if !ok {
		return
	}

	community, err := c.communities.Join(ctx.Request.Context(), principal(ctx).ID, id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"community": community})
}

func (c *CommunityController) Leave(ctx *gin.Context) {
	id, ok := pathID(ctx, "communityID")
	if !ok {
		return
	}

	community, err := c.communities.Leave(ctx.Request.Context(), principal(ctx).ID, id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"community": community})
}

func (c *CommunityController) CreatePost(ctx *gin.Context) {
	id, ok := pathID(ctx, "communityID")
	if !ok {
		return
	}
	type request struct {
		Content string `json:"content" binding:"required"`
	}
	var req request
	if !bindJSON(ctx, &req) {
		return
	}

	post, err := c.communities.CreatePost(ctx.Request.Context(), principal(ctx).ID, id, req.Content)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"post": post})
}

func (c *CommunityController) ListPosts(ctx *gin.Context) {
	id, ok := pathID(ctx, "communityID")
	if !ok {
		return
	}

	posts, err := c.communities.ListPosts(ctx.Request.Context(), principal(ctx).ID, id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (c *CommunityController) ToggleLike(ctx *gin.Context) {
	id, ok := pathID(ctx, "postID")
	if !ok {
		return
	}

	liked, count, err := c.communities.ToggleLike(ctx.Request.Context(), principal(ctx).ID, id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": count})
}

func (c *CommunityController) AddComment(ctx *gin.Context) {
	id, ok := pathID(ctx, "postID")
	if !ok {
		return
	}
	var req textRequest
	if !bindJSON(ctx, &req) {
		return
	}

	comment, err := c.communities.AddComment(ctx.Request.Context(), principal(ctx).ID, id, req.Text)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (c *CommunityController) ListComments(ctx *gin.Context) {
	id, ok := pathID(ctx, "postID")
	if !ok {
		return
	}

	comments, err := c.communities.ListComments(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (c *CommunityController) AddReply(ctx *gin.Context) {
	id, ok := pathID(ctx, "commentID")
	if !ok {
		return
	}
	var req textRequest
	if !bindJSON(ctx, &req) {
		return
	}

	reply, err := c.communities.AddReply(ctx.Request.Context(), principal(ctx).ID, id, req.Text)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"reply": reply})
}

func (c *CommunityController) ListReplies(ctx *gin.Context) {
	id, ok := pathID(ctx, "commentID")
	if !ok {
		return
	}

	replies, err := c.communities.ListReplies(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"replies": replies})
}
