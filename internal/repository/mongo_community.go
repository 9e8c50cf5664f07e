package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCommunityRepository struct {
	coll *mongo.Collection
}

func NewMongoCommunityRepository(db *mongo.Database) *MongoCommunityRepository {
	return &MongoCommunityRepository{coll: db.Collection(communitiesCollection)}
}

func (r *MongoCommunityRepository) Create(ctx context.Context, community *domain.Community) error {
	if _, err := r.coll.InsertOne(ctx, toModelCommunity(community)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCommunityNameExists
		}
		return err
	}
	return nil
}

func (r *MongoCommunityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Community, error) {
	var m model.Community
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	return toDomainCommunity(&m), nil
}

func (r *MongoCommunityRepository) List(ctx context.Context) ([]*domain.Community, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []model.Community
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Community, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainCommunity(&docs[i]))
	}
	return out, nil
}

func (r *MongoCommunityRepository) AddMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "members": bson.M{"$ne": userID.String()}},
		bson.M{
			"$push": bson.M{"members": userID.String()},
			"$inc":  bson.M{"member_count": 1},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.mustExist(ctx, id)
}

func (r *MongoCommunityRepository) RemoveMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "members": userID.String()},
		bson.M{
			"$pull": bson.M{"members": userID.String()},
			"$inc":  bson.M{"member_count": -1},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.mustExist(ctx, id)
}

func (r *MongoCommunityRepository) IncPostCount(ctx context.Context, id uuid.UUID, delta int) error {
	return incField(ctx, r.coll, id, "post_count", delta, ErrCommunityNotFound)
}

func (r *MongoCommunityRepository) mustExist(ctx context.Context, id uuid.UUID) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommunityNotFound
	}
	return nil
}

type MongoPostRepository struct {
	coll *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(postsCollection)}
}

func (r *MongoPostRepository) Create(ctx context.Context, post *domain.Post) error {
	_, err := r.coll.InsertOne(ctx, toModelPost(post))
	return err
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var m model.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return toDomainPost(&m), nil
}

func (r *MongoPostRepository) ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]*domain.Post, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"community_id": communityID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []model.Post
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainPost(&docs[i]))
	}
	return out, nil
}

// ToggleLike tries to add the like first and falls back to removing it. Each
// step is a single conditional update so counters never drift.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	id, user := postID.String(), userID.String()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m model.Post
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "likes": bson.M{"$ne": user}},
		bson.M{"$push": bson.M{"likes": user}, "$inc": bson.M{"like_count": 1}},
		opts,
	).Decode(&m)
	if err == nil {
		return true, m.LikeCount, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, 0, err
	}

	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "likes": user},
		bson.M{"$pull": bson.M{"likes": user}, "$inc": bson.M{"like_count": -1}},
		opts,
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, err
	}
	return false, m.LikeCount, nil
}

func (r *MongoPostRepository) IncCommentCount(ctx context.Context, id uuid.UUID, delta int) error {
	return incField(ctx, r.coll, id, "comment_count", delta, ErrPostNotFound)
}

type MongoCommentRepository struct {
	coll *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{coll: db.Collection(commentsCollection)}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	_, err := r.coll.InsertOne(ctx, toModelComment(comment))
	return err
}

func (r *MongoCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var m model.Comment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return toDomainComment(&m), nil
}

func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"post_id": postID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []model.Comment
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Comment, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainComment(&docs[i]))
	}
	return out, nil
}

func (r *MongoCommentRepository) IncReplyCount(ctx context.Context, id uuid.UUID, delta int) error {
	return incField(ctx, r.coll, id, "reply_count", delta, ErrCommentNotFound)
}

type MongoReplyRepository struct {
	coll *mongo.Collection
}

func NewMongoReplyRepository(db *mongo.Database) *MongoReplyRepository {
	return &MongoReplyRepository{coll: db.Collection(repliesCollection)}
}

func (r *MongoReplyRepository) Create(ctx context.Context, reply *domain.Reply) error {
	_, err := r.coll.InsertOne(ctx, toModelReply(reply))
	return err
}

func (r *MongoReplyRepository) ListByComment(ctx context.Context, commentID uuid.UUID) ([]*domain.Reply, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"comment_id": commentID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []model.Reply
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Reply, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainReply(&docs[i]))
	}
	return out, nil
}

func incField(ctx context.Context, coll *mongo.Collection, id uuid.UUID, field string, delta int, notFound error) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}
