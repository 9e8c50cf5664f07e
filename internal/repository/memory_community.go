package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
)

type InMemoryCommunityRepository struct {
	mu          sync.RWMutex
	communities map[uuid.UUID]*domain.Community
	names       map[string]uuid.UUID
}

func NewInMemoryCommunityRepository() *InMemoryCommunityRepository {
	return &InMemoryCommunityRepository{
		communities: make(map[uuid.UUID]*domain.Community),
		names:       make(map[string]uuid.UUID),
	}
}

func cloneCommunity(c *domain.Community) *domain.Community {
	cp := *c
	cp.Members = append([]uuid.UUID{}, c.Members...)
	return &cp
}

func (r *InMemoryCommunityRepository) Create(ctx context.Context, community *domain.Community) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(community.Name)
	if _, ok := r.names[name]; ok {
		return ErrCommunityNameExists
	}
	r.communities[community.ID] = cloneCommunity(community)
	r.names[name] = community.ID
	return nil
}

func (r *InMemoryCommunityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Community, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	community, ok := r.communities[id]
	if !ok {
		return nil, ErrCommunityNotFound
	}
	return cloneCommunity(community), nil
}

func (r *InMemoryCommunityRepository) List(ctx context.Context) ([]*domain.Community, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.Community, 0, len(r.communities))
	for _, community := range r.communities {
		out = append(out, cloneCommunity(community))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryCommunityRepository) AddMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	community, ok := r.communities[id]
	if !ok {
		return false, ErrCommunityNotFound
	}
	if community.IsMember(userID) {
		return false, nil
	}
	community.Members = append(community.Members, userID)
	community.MemberCount++
	return true, nil
}

func (r *InMemoryCommunityRepository) RemoveMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	community, ok := r.communities[id]
	if !ok {
		return false, ErrCommunityNotFound
	}
	for i, m := range community.Members {
		if m == userID {
			community.Members = append(community.Members[:i], community.Members[i+1:]...)
			community.MemberCount--
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryCommunityRepository) IncPostCount(ctx context.Context, id uuid.UUID, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	community, ok := r.communities[id]
	if !ok {
		return ErrCommunityNotFound
	}
	community.PostCount += delta
	return nil
}

type InMemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*domain.Post
}

func NewInMemoryPostRepository() *InMemoryPostRepository {
	return &InMemoryPostRepository{posts: make(map[uuid.UUID]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Likes = append([]uuid.UUID{}, p.Likes...)
	return &cp
}

func (r *InMemoryPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *InMemoryPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return clonePost(post), nil
}

func (r *InMemoryPostRepository) ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.Post, 0)
	for _, post := range r.posts {
		if post.CommunityID == communityID {
			out = append(out, clonePost(post))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryPostRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	if err := ctx.Err(); err != nil {
		return false, 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return false, 0, ErrPostNotFound
	}
	for i, id := range post.Likes {
		if id == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			post.LikeCount--
			return false, post.LikeCount, nil
		}
	}
	post.Likes = append(post.Likes, userID)
	post.LikeCount++
	return true, post.LikeCount, nil
}

func (r *InMemoryPostRepository) IncCommentCount(ctx context.Context, id uuid.UUID, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	post.CommentCount += delta
	return nil
}

type InMemoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[uuid.UUID]*domain.Comment
}

func NewInMemoryCommentRepository() *InMemoryCommentRepository {
	return &InMemoryCommentRepository{comments: make(map[uuid.UUID]*domain.Comment)}
}

func (r *InMemoryCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *InMemoryCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	cp := *comment
	return &cp, nil
}

func (r *InMemoryCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.Comment, 0)
	for _, comment := range r.comments {
		if comment.PostID == postID {
			cp := *comment
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryCommentRepository) IncReplyCount(ctx context.Context, id uuid.UUID, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[id]
	if !ok {
		return ErrCommentNotFound
	}
	comment.ReplyCount += delta
	return nil
}

type InMemoryReplyRepository struct {
	mu      sync.RWMutex
	replies map[uuid.UUID][]*domain.Reply
}

func NewInMemoryReplyRepository() *InMemoryReplyRepository {
	return &InMemoryReplyRepository{replies: make(map[uuid.UUID][]*domain.Reply)}
}

func (r *InMemoryReplyRepository) Create(ctx context.Context, reply *domain.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *reply
	r.replies[reply.CommentID] = append(r.replies[reply.CommentID], &cp)
	return nil
}

func (r *InMemoryReplyRepository) ListByComment(ctx context.Context, commentID uuid.UUID) ([]*domain.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.replies[commentID]
	out := make([]*domain.Reply, 0, len(stored))
	for _, reply := range stored {
		cp := *reply
		out = append(out, &cp)
	}
	return out, nil
}
