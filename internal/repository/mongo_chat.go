package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConversationRepository struct {
	coll *mongo.Collection
}

func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{coll: db.Collection(conversationsCollection)}
}

func (r *MongoConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *MongoConversationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Conversation, error) {
	var m model.Conversation
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return toDomainConversation(&m), nil
}

// FindOrCreate upserts on the unique key so the insert and the lookup are one
// operation. Two racing upserts can still collide on the index, in which case
// the loser reads the winner's document.
func (r *MongoConversationRepository) FindOrCreate(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	doc := toModelConversation(conv)
	onInsert := bson.M{
		"_id":             doc.ID,
		"participants":    doc.Participants,
		"last_message":    doc.LastMessage,
		"last_message_at": doc.LastMessageAt,
		"created_at":      doc.CreatedAt,
	}
	if doc.ListingID != "" {
		onInsert["listing_id"] = doc.ListingID
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var m model.Conversation
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"key": doc.Key},
		bson.M{"$setOnInsert": onInsert},
		opts,
	).Decode(&m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.findOne(ctx, bson.M{"key": doc.Key})
		}
		return nil, err
	}
	return toDomainConversation(&m), nil
}

func (r *MongoConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"participants": userID.String()},
		options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}, {Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []model.Conversation
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Conversation, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainConversation(&docs[i]))
	}
	return out, nil
}

func (r *MongoConversationRepository) UpdateLastMessage(ctx context.Context, id uuid.UUID, text string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "last_message_at": bson.M{"$lte": at}},
		bson.M{"$set": bson.M{"last_message": text, "last_message_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Either missing or a newer message already won.
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(messagesCollection)}
}

func (r *MongoMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, toModelMessage(msg))
	return err
}

func (r *MongoMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*domain.Message, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"conversation_id": conversationID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at_ns", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []model.Message
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Message, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainMessage(&docs[i]))
	}
	return out, nil
}

func (r *MongoMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID, conversationIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"conversation_id": bson.M{"$in": idStrings(conversationIDs)},
			"sender_id":       bson.M{"$ne": userID.String()},
			"read":            false,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$conversation_id",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ConversationID string `bson:"_id"`
		Count          int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[parseID(row.ConversationID)] = row.Count
	}
	return counts, nil
}

func (r *MongoMessageRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{
			"conversation_id": conversationID.String(),
			"sender_id":       bson.M{"$ne": readerID.String()},
			"read":            false,
		},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
