package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type UserController struct {
	auth  service.AuthInteractor
	users service.UserInteractor
	log   *slog.Logger
}

func NewUserController(auth service.AuthInteractor, users service.UserInteractor, log *slog.Logger) *UserController {
	return &UserController{auth: auth, users: users, log: log}
}

func (c *UserController) Signup(ctx *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required,oneof=renter owner"`
	}

	var req request
	if !bindJSON(ctx, &req) {
		return
	}

	token, user, err := c.auth.Signup(ctx.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (c *UserController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if !bindJSON(ctx, &req) {
		return
	}

	token, user, err := c.auth.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (c *UserController) Me(ctx *gin.Context) {
	user, err := c.users.GetUser(ctx.Request.Context(), principal(ctx).ID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "userID")
	if !ok {
		return
	}

	user, err := c.users.GetUser(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

// ChangeRole switches the caller's role once and returns a token carrying
// the new role.
func (c *UserController) ChangeRole(ctx *gin.Context) {
	type request struct {
		Role string `json:"role" binding:"required,oneof=renter owner"`
	}

	var req request
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.users.ChangeRole(ctx.Request.Context(), principal(ctx).ID, domain.Role(req.Role))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}
	token, err := c.auth.IssueToken(user)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
