package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

type CommunityService struct {
	communities repository.CommunityRepository
	posts       repository.PostRepository
	comments    repository.CommentRepository
	replies     repository.ReplyRepository
	join        joiner
	log         *slog.Logger
}

func NewCommunityService(store *repository.Store, log *slog.Logger) *CommunityService {
	return &CommunityService{
		communities: store.Communities,
		posts:       store.Posts,
		comments:    store.Comments,
		replies:     store.Replies,
		join:        joiner{users: store.Users, listings: store.Listings},
		log:         log,
	}
}

func (s *CommunityService) CreateCommunity(ctx context.Context, creatorID uuid.UUID, name, description string) (*domain.Community, error) {
	const op = "service.community.CreateCommunity"

	community, err := domain.NewCommunity(creatorID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.communities.Create(ctx, community); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("community created",
		slog.String("op", op),
		slog.String("community_id", community.ID.String()),
		slog.String("name", community.Name),
	)
	return community, nil
}

func (s *CommunityService) ListCommunities(ctx context.Context) ([]*domain.Community, error) {
	const op = "service.community.ListCommunities"

	communities, err := s.communities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return communities, nil
}

func (s *CommunityService) GetCommunity(ctx context.Context, id uuid.UUID) (*domain.Community, error) {
	const op = "service.community.GetCommunity"

	community, err := s.communities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return community, nil
}

func (s *CommunityService) Join(ctx context.Context, userID, communityID uuid.UUID) (*domain.Community, error) {
	const op = "service.community.Join"

	changed, err := s.communities.AddMember(ctx, communityID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if changed {
		s.log.Info("member joined", slog.String("op", op),
			slog.String("community_id", communityID.String()), slog.String("user_id", userID.String()))
	}
	return s.GetCommunity(ctx, communityID)
}

func (s *CommunityService) Leave(ctx context.Context, userID, communityID uuid.UUID) (*domain.Community, error) {
	const op = "service.community.Leave"

	changed, err := s.communities.RemoveMember(ctx, communityID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if changed {
		s.log.Info("member left", slog.String("op", op),
			slog.String("community_id", communityID.String()), slog.String("user_id", userID.String()))
	}
	return s.GetCommunity(ctx, communityID)
}

func (s *CommunityService) CreatePost(ctx context.Context, authorID, communityID uuid.UUID, content string) (*domain.PostDetails, error) {
	const op = "service.community.CreatePost"
	log := s.log.With(slog.String("op", op), slog.String("community_id", communityID.String()))

	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !community.IsMember(authorID) {
		return nil, domain.Forbidden("only members can post in this community")
	}

	post, err := domain.NewPost(communityID, authorID, content)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.communities.IncPostCount(ctx, communityID, 1); err != nil {
		log.Error("failed to bump post count", sl.Err(err))
	}

	authors, err := s.join.authors(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &domain.PostDetails{Post: post, Author: authors[authorID].Summary()}, nil
}

func (s *CommunityService) ListPosts(ctx context.Context, viewerID, communityID uuid.UUID) ([]*domain.PostDetails, error) {
	const op = "service.community.ListPosts"

	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	posts, err := s.posts.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	authors, err := s.join.authors(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*domain.PostDetails, 0, len(posts))
	for _, p := range posts {
		out = append(out, &domain.PostDetails{
			Post:   p,
			Author: authors[p.AuthorID].Summary(),
			Liked:  p.LikedBy(viewerID),
		})
	}
	return out, nil
}

func (s *CommunityService) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (bool, int, error) {
	const op = "service.community.ToggleLike"

	liked, count, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}
	return liked, count, nil
}

func (s *CommunityService) AddComment(ctx context.Context, authorID, postID uuid.UUID, text string) (*domain.CommentDetails, error) {
	const op = "service.community.AddComment"

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	comment, err := domain.NewComment(postID, authorID, text)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.posts.IncCommentCount(ctx, postID, 1); err != nil {
		s.log.Error("failed to bump comment count", slog.String("op", op), sl.Err(err))
	}

	authors, err := s.join.authors(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &domain.CommentDetails{Comment: comment, Author: authors[authorID].Summary()}, nil
}

func (s *CommunityService) ListComments(ctx context.Context, postID uuid.UUID) ([]*domain.CommentDetails, error) {
	const op = "service.community.ListComments"

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := s.join.authors(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*domain.CommentDetails, 0, len(comments))
	for _, c := range comments {
		out = append(out, &domain.CommentDetails{Comment: c, Author: authors[c.AuthorID].Summary()})
	}
	return out, nil
}

func (s *CommunityService) AddReply(ctx context.Context, authorID, commentID uuid.UUID, text string) (*domain.ReplyDetails, error) {
	const op = "service.community.AddReply"

	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reply, err := domain.NewReply(commentID, authorID, text)
	if err != nil {
		return nil, err
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.comments.IncReplyCount(ctx, commentID, 1); err != nil {
		s.log.Error("failed to bump reply count", slog.String("op", op), sl.Err(err))
	}

	authors, err := s.join.authors(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &domain.ReplyDetails{Reply: reply, Author: authors[authorID].Summary()}, nil
}

func (s *CommunityService) ListReplies(ctx context.Context, commentID uuid.UUID) ([]*domain.ReplyDetails, error) {
	const op = "service.community.ListReplies"

	replies, err := s.replies.ListByComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ids := make([]uuid.UUID, 0, len(replies))
	for _, r := range replies {
		ids = append(ids, r.AuthorID)
	}
	authors, err := s.join.authors(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*domain.ReplyDetails, 0, len(replies))
	for _, r := range replies {
		out = append(out, &domain.ReplyDetails{Reply: r, Author: authors[r.AuthorID].Summary()})
	}
	return out, nil
}
