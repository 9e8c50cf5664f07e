package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/basha_lagbe/internal/api/http/converter"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsMaxMessage = 16 << 10
)

type ChatController struct {
	chat      service.ChatInteractor
	upgrader  websocket.Upgrader
	keepAlive time.Duration
	log       *slog.Logger
}

func NewChatController(chat service.ChatInteractor, allowedOrigins []string, keepAlive time.Duration, log *slog.Logger) *ChatController {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &ChatController{
		chat:      chat,
		keepAlive: keepAlive,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

func (c *ChatController) FindOrCreateConversation(ctx *gin.Context) {
	var req converter.ConversationRequest
	if !bindJSON(ctx, &req) {
		return
	}

	conv, err := c.chat.FindOrCreateConversation(ctx.Request.Context(), principal(ctx).ID, converter.ConversationTargetFromApi(&req))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (c *ChatController) ListConversations(ctx *gin.Context) {
	convs, err := c.chat.ListConversations(ctx.Request.Context(), principal(ctx).ID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (c *ChatController) SendMessage(ctx *gin.Context) {
	var req converter.MessageRequest
	if !bindJSON(ctx, &req) {
		return
	}

	msg, err := c.chat.SendMessage(ctx.Request.Context(), principal(ctx).ID, req.ConversationID, req.Text)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (c *ChatController) ListMessages(ctx *gin.Context) {
	convID, ok := queryID(ctx, "conversationId")
	if !ok {
		return
	}

	msgs, err := c.chat.ListMessages(ctx.Request.Context(), principal(ctx).ID, convID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (c *ChatController) UnreadCount(ctx *gin.Context) {
	count, err := c.chat.UnreadCount(ctx.Request.Context(), principal(ctx).ID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

func (c *ChatController) MarkRead(ctx *gin.Context) {
	var req converter.MarkReadRequest
	if !bindJSON(ctx, &req) {
		return
	}

	updated, err := c.chat.MarkRead(ctx.Request.Context(), principal(ctx).ID, req.ConversationID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Stream pushes messages of one conversation as server-sent events until the
// client goes away.
func (c *ChatController) Stream(ctx *gin.Context) {
	convID, ok := queryID(ctx, "conversationId")
	if !ok {
		return
	}

	sub, err := c.chat.Subscribe(ctx.Request.Context(), principal(ctx).ID, convID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}
	defer sub.Close()

	c.streamEvents(ctx, sub)
}

// Notifications streams the caller's notifications as server-sent events.
func (c *ChatController) Notifications(ctx *gin.Context) {
	sub, err := c.chat.SubscribeNotifications(ctx.Request.Context(), principal(ctx).ID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}
	defer sub.Close()

	c.streamEvents(ctx, sub)
}

func (c *ChatController) streamEvents(ctx *gin.Context, sub *pubsub.Subscription) {
	header := ctx.Writer.Header()
	header.Set("Content-Type", sse.ContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	ctx.Status(http.StatusOK)
	ctx.Writer.Flush()

	ticker := time.NewTicker(c.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Request.Context().Done():
			return
		case payload, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(ctx.Writer, payload); err != nil {
				return
			}
			ctx.Writer.Flush()
		case <-ticker.C:
			if _, err := io.WriteString(ctx.Writer, ": keep-alive\n\n"); err != nil {
				return
			}
			ctx.Writer.Flush()
		}
	}
}

// writeEvent frames one JSON payload as "data: <json>\n\n". Payloads are
// compact JSON and never span lines.
func writeEvent(w io.Writer, payload []byte) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// Socket delivers the same payloads as Stream over a WebSocket. Clients may
// also post messages by sending {"text": "..."} frames.
func (c *ChatController) Socket(ctx *gin.Context) {
	convID, ok := queryID(ctx, "conversationId")
	if !ok {
		return
	}
	userID := principal(ctx).ID

	subCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := c.chat.Subscribe(subCtx, userID, convID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}
	defer sub.Close()

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Warn("websocket upgrade failed", sl.Err(err))
		return
	}
	defer conn.Close()

	log := c.log.With(slog.String("conversation_id", convID.String()), slog.String("user_id", userID.String()))
	log.Debug("websocket connected")

	replies := make(chan any, 8)
	go c.readFrames(subCtx, cancel, conn, userID, convID, replies)
	c.writeFrames(subCtx, conn, sub, replies)

	log.Debug("websocket disconnected")
}

type wsFrame struct {
	Text string `json:"text"`
}

// readFrames runs until the connection fails, posting each frame as a message.
func (c *ChatController) readFrames(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, userID, convID uuid.UUID, replies chan<- any) {
	defer cancel()

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		if _, err := c.chat.SendMessage(ctx, userID, convID, frame.Text); err != nil {
			msg := domain.PublicMessage(err)
			if msg == "" || statusFor(err) == http.StatusInternalServerError {
				msg = "failed to send message"
			}
			select {
			case replies <- gin.H{"error": msg}:
			default:
			}
		}
	}
}

// writeFrames is the only writer on conn.
func (c *ChatController) writeFrames(ctx context.Context, conn *websocket.Conn, sub *pubsub.Subscription, replies <-chan any) {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
			return
		case payload, ok := <-sub.C:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case reply := <-replies:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
