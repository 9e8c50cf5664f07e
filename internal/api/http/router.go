package http

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type Controllers struct {
	Users       *UserController
	Listings    *ListingController
	Leases      *LeaseController
	Chat        *ChatController
	Communities *CommunityController
}

func SetupRouter(allowedOrigins []string, log *slog.Logger, auth service.AuthInteractor, c Controllers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	authed := api.Group("", AuthRequired(auth, log))

	if c.Users != nil {
		api.POST("/auth/signup", c.Users.Signup)
		api.POST("/auth/login", c.Users.Login)

		authed.GET("/users/me", c.Users.Me)
		authed.PATCH("/users/me/role", c.Users.ChangeRole)
		authed.GET("/users/:userID", c.Users.GetUser)
	}

	if c.Listings != nil {
		api.GET("/listings", c.Listings.Search)
		api.GET("/listings/:listingID", c.Listings.Get)

		authed.POST("/listings", c.Listings.Create)
		authed.PUT("/listings/:listingID", c.Listings.Update)
		authed.DELETE("/listings/:listingID", c.Listings.Delete)
		authed.POST("/listings/:listingID/images", c.Listings.UploadImage)
		authed.GET("/users/me/listings", c.Listings.Mine)
	}

	if c.Leases != nil {
		leases := authed.Group("/leaseRequests")
		leases.POST("", c.Leases.CreateRequest)
		leases.GET("", c.Leases.ListRequests)
		leases.GET("/:leaseRequestID", c.Leases.GetRequest)
		leases.PATCH("/:leaseRequestID", c.Leases.UpdateStatus)

		bookings := authed.Group("/bookings")
		bookings.POST("", c.Leases.CreateBooking)
		bookings.GET("", c.Leases.ListBookings)
		bookings.GET("/:bookingID", c.Leases.GetBooking)
		bookings.PATCH("/:bookingID", c.Leases.UpdateBooking)
		bookings.POST("/:bookingID/pay", c.Leases.PayBooking)
	}

	if c.Chat != nil {
		authed.POST("/conversations", c.Chat.FindOrCreateConversation)
		authed.GET("/conversations", c.Chat.ListConversations)

		messages := authed.Group("/messages")
		messages.POST("", c.Chat.SendMessage)
		messages.GET("", c.Chat.ListMessages)
		messages.GET("/unread-count", c.Chat.UnreadCount)
		messages.POST("/mark-read", c.Chat.MarkRead)

		authed.GET("/chat/stream", c.Chat.Stream)
		authed.GET("/chat/ws", c.Chat.Socket)
		authed.GET("/notifications/stream", c.Chat.Notifications)
	}

	if c.Communities != nil {
		communities := authed.Group("/communities")
		communities.POST("", c.Communities.Create)
		communities.GET("", c.Communities.List)
		communities.GET("/:communityID", c.Communities.Get)
		communities.POST("/:communityID/join", c.Communities.Join)
		communities.POST("/:communityID/leave", c.Communities.Leave)
		communities.POST("/:communityID/posts", c.Communities.CreatePost)
		communities.GET("/:communityID/posts", c.Communities.ListPosts)

		authed.POST("/posts/:postID/like", c.Communities.ToggleLike)
		authed.POST("/posts/:postID/comments", c.Communities.AddComment)
		authed.GET("/posts/:postID/comments", c.Communities.ListComments)
		authed.POST("/comments/:commentID/replies", c.Communities.AddReply)
		authed.GET("/comments/:commentID/replies", c.Communities.ListReplies)
	}

	return router
}
