package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxCommunityNameLength = 80
	maxPostLength          = 5000
	maxCommentLength       = 2000
)

type Community struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatorID   uuid.UUID   `json:"creatorId"`
	Members     []uuid.UUID `json:"-"`
	MemberCount int         `json:"memberCount"`
	PostCount   int         `json:"postCount"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func NewCommunity(creatorID uuid.UUID, name, description string) (*Community, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Invalid("community name is required")
	}
	if utf8.RuneCountInString(name) > maxCommunityNameLength {
		return nil, Invalid("community name is too long")
	}
	return &Community{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
		Members:     []uuid.UUID{creatorID},
		MemberCount: 1,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (c *Community) IsMember(userID uuid.UUID) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

type Post struct {
	ID           uuid.UUID   `json:"id"`
	CommunityID  uuid.UUID   `json:"communityId"`
	AuthorID     uuid.UUID   `json:"authorId"`
	Content      string      `json:"content"`
	Likes        []uuid.UUID `json:"-"`
	LikeCount    int         `json:"likeCount"`
	CommentCount int         `json:"commentCount"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func NewPost(communityID, authorID uuid.UUID, content string) (*Post, error) {
	text, err := cleanText(content, maxPostLength, "post")
	if err != nil {
		return nil, err
	}
	return &Post{
		ID:          uuid.New(),
		CommunityID: communityID,
		AuthorID:    authorID,
		Content:     text,
		Likes:       []uuid.UUID{},
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type Comment struct {
	ID         uuid.UUID `json:"id"`
	PostID     uuid.UUID `json:"postId"`
	AuthorID   uuid.UUID `json:"authorId"`
	Text       string    `json:"text"`
	ReplyCount int       `json:"replyCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewComment(postID, authorID uuid.UUID, text string) (*Comment, error) {
	body, err := cleanText(text, maxCommentLength, "comment")
	if err != nil {
		return nil, err
	}
	return &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type Reply struct {
	ID        uuid.UUID `json:"id"`
	CommentID uuid.UUID `json:"commentId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewReply(commentID, authorID uuid.UUID, text string) (*Reply, error) {
	body, err := cleanText(text, maxCommentLength, "reply")
	if err != nil {
		return nil, err
	}
	return &Reply{
		ID:        uuid.New(),
		CommentID: commentID,
		AuthorID:  authorID,
		Text:      body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func cleanText(s string, max int, what string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Invalid(what + " cannot be empty")
	}
	if utf8.RuneCountInString(s) > max {
		return "", Invalid(what + " is too long")
	}
	return s, nil
}
