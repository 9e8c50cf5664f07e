package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection          = "users"
	listingsCollection       = "listings"
	leaseRequestsCollection  = "lease_requests"
	bookingsCollection       = "bookings"
	bookingIntentsCollection = "booking_intents"
	conversationsCollection  = "conversations"
	messagesCollection       = "messages"
	communitiesCollection    = "communities"
	postsCollection          = "posts"
	commentsCollection       = "comments"
	repliesCollection        = "replies"
)

// NewMongoClient connects and pings within timeout.
func NewMongoClient(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	const op = "repository.mongo.NewMongoClient"

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness and ordering.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	const op = "repository.mongo.EnsureIndexes"

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		listingsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
			{Keys: bson.D{{Key: "city", Value: 1}, {Key: "price_per_month", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		leaseRequestsCollection: {
			{
				Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "renter_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}).
					SetName("one_active_request_per_renter"),
			},
			{Keys: bson.D{{Key: "renter_id", Value: 1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
			{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "active", Value: 1}}},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "lease_request_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "renter_id", Value: 1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
		bookingIntentsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: 1}}},
		},
		conversationsCollection: {
			{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "last_message_at", Value: -1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at_ns", Value: 1}}},
			{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "read", Value: 1}, {Key: "sender_id", Value: 1}}},
		},
		communitiesCollection: {
			{Keys: bson.D{{Key: "name_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		repliesCollection: {
			{Keys: bson.D{{Key: "comment_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %s: %w", op, coll, err)
		}
	}
	return nil
}

// NewMongoStore wires every repository against db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:          NewMongoUserRepository(db),
		Listings:       NewMongoListingRepository(db),
		LeaseRequests:  NewMongoLeaseRequestRepository(db),
		Bookings:       NewMongoBookingRepository(db),
		BookingIntents: NewMongoBookingIntentRepository(db),
		Conversations:  NewMongoConversationRepository(db),
		Messages:       NewMongoMessageRepository(db),
		Communities:    NewMongoCommunityRepository(db),
		Posts:          NewMongoPostRepository(db),
		Comments:       NewMongoCommentRepository(db),
		Replies:        NewMongoReplyRepository(db),
	}
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toModelUser(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserEmailExists
		}
		return err
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var m model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(&m), nil
}

func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	out := make(map[uuid.UUID]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}})
	if err != nil {
		return nil, err
	}
	var docs []model.User
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		user := toDomainUser(&docs[i])
		out[user.ID] = user
	}
	return out, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID.String()}, toModelUser(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserEmailExists
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

type MongoListingRepository struct {
	coll *mongo.Collection
}

func NewMongoListingRepository(db *mongo.Database) *MongoListingRepository {
	return &MongoListingRepository{coll: db.Collection(listingsCollection)}
}

func (r *MongoListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	_, err := r.coll.InsertOne(ctx, toModelListing(listing))
	return err
}

func (r *MongoListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var m model.Listing
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return toDomainListing(&m), nil
}

func (r *MongoListingRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Listing, error) {
	out := make(map[uuid.UUID]*domain.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}})
	if err != nil {
		return nil, err
	}
	var docs []model.Listing
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		listing := toDomainListing(&docs[i])
		out[listing.ID] = listing
	}
	return out, nil
}

func (r *MongoListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": listing.ID.String()}, toModelListing(listing))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *MongoListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *MongoListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	query, opts := BuildListingQuery(filter)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []model.Listing
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainListing(&docs[i]))
	}
	return out, nil
}

func (r *MongoListingRepository) AddImage(ctx context.Context, id uuid.UUID, url string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{
			"$push": bson.M{"images": url},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrListingNotFound
	}
	return nil
}

// BuildListingQuery translates a search filter into a Mongo filter and find
// options. It selects the same listings as ListingFilter.Matches.
func BuildListingQuery(filter domain.ListingFilter) (bson.D, *options.FindOptions) {
	filter.Normalize()

	query := bson.D{}
	if filter.OwnerID != uuid.Nil {
		query = append(query, bson.E{Key: "owner_id", Value: filter.OwnerID.String()})
	}
	if filter.City != "" {
		query = append(query, bson.E{Key: "city", Value: exactInsensitive(filter.City)})
	}
	if filter.Area != "" {
		query = append(query, bson.E{Key: "area", Value: exactInsensitive(filter.Area)})
	}

	price := bson.D{}
	if filter.MinPrice > 0 {
		price = append(price, bson.E{Key: "$gte", Value: filter.MinPrice})
	}
	if filter.MaxPrice > 0 {
		price = append(price, bson.E{Key: "$lte", Value: filter.MaxPrice})
	}
	if len(price) > 0 {
		query = append(query, bson.E{Key: "price_per_month", Value: price})
	}
	if filter.MinBedrooms > 0 {
		query = append(query, bson.E{Key: "bedrooms", Value: bson.M{"$gte": filter.MinBedrooms}})
	}

	var and bson.A
	if filter.Query != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(filter.Query), "$options": "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}})
	}
	if !filter.AvailableFrom.IsZero() {
		query = append(query, bson.E{Key: "available_from", Value: bson.M{"$lte": filter.AvailableFrom}})
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"available_to": bson.M{"$exists": false}},
			bson.M{"available_to": nil},
			bson.M{"available_to": bson.M{"$gte": filter.AvailableFrom}},
		}})
	}
	if len(and) > 0 {
		query = append(query, bson.E{Key: "$and", Value: and})
	}

	var sort bson.D
	switch filter.Sort {
	case domain.SortPriceAsc:
		sort = bson.D{{Key: "price_per_month", Value: 1}, {Key: "created_at", Value: -1}}
	case domain.SortPriceDesc:
		sort = bson.D{{Key: "price_per_month", Value: -1}, {Key: "created_at", Value: -1}}
	default:
		sort = bson.D{{Key: "created_at", Value: -1}}
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))
	return query, opts
}

func exactInsensitive(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}
