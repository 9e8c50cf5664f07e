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

type MongoLeaseRequestRepository struct {
	coll *mongo.Collection
}

func NewMongoLeaseRequestRepository(db *mongo.Database) *MongoLeaseRequestRepository {
	return &MongoLeaseRequestRepository{coll: db.Collection(leaseRequestsCollection)}
}

func (r *MongoLeaseRequestRepository) Create(ctx context.Context, lr *domain.LeaseRequest) error {
	if _, err := r.coll.InsertOne(ctx, toModelLeaseRequest(lr)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrActiveLeaseRequestExists
		}
		return err
	}
	return nil
}

func (r *MongoLeaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeaseRequest, error) {
	var m model.LeaseRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLeaseRequestNotFound
		}
		return nil, err
	}
	return toDomainLeaseRequest(&m), nil
}

func (r *MongoLeaseRequestRepository) Update(ctx context.Context, lr *domain.LeaseRequest) error {
	doc := toModelLeaseRequest(lr)
	doc.Version = lr.Version + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID, "version": lr.Version}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrActiveLeaseRequestExists
		}
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": doc.ID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLeaseRequestNotFound
		}
		return ErrLeaseRequestConflict
	}

	lr.Version = doc.Version
	return nil
}

func (r *MongoLeaseRequestRepository) List(ctx context.Context, query LeaseRequestQuery) ([]*domain.LeaseRequest, error) {
	user := query.UserID.String()
	filter := bson.M{}
	switch query.Party {
	case domain.PartyRenter:
		filter["renter_id"] = user
	case domain.PartyOwner:
		filter["owner_id"] = user
	default:
		filter["$or"] = bson.A{bson.M{"renter_id": user}, bson.M{"owner_id": user}}
	}
	if query.Status != "" {
		filter["status"] = string(query.Status)
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []model.LeaseRequest
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.LeaseRequest, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainLeaseRequest(&docs[i]))
	}
	return out, nil
}

func (r *MongoLeaseRequestRepository) CountActiveForListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"listing_id": listingID.String(), "active": true})
}

type MongoBookingRepository struct {
	coll *mongo.Collection
}

func NewMongoBookingRepository(db *mongo.Database) *MongoBookingRepository {
	return &MongoBookingRepository{coll: db.Collection(bookingsCollection)}
}

func (r *MongoBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if _, err := r.coll.InsertOne(ctx, toModelBooking(booking)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrBookingExists
		}
		return err
	}
	return nil
}

func (r *MongoBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *MongoBookingRepository) GetByLeaseRequest(ctx context.Context, leaseRequestID uuid.UUID) (*domain.Booking, error) {
	return r.findOne(ctx, bson.M{"lease_request_id": leaseRequestID.String()})
}

func (r *MongoBookingRepository) findOne(ctx context.Context, filter bson.M) (*domain.Booking, error) {
	var m model.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return toDomainBooking(&m), nil
}

func (r *MongoBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": booking.ID.String()}, toModelBooking(booking))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *MongoBookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	user := userID.String()
	cursor, err := r.coll.Find(ctx,
		bson.M{"$or": bson.A{bson.M{"renter_id": user}, bson.M{"owner_id": user}}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []model.Booking
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Booking, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainBooking(&docs[i]))
	}
	return out, nil
}

type MongoBookingIntentRepository struct {
	coll *mongo.Collection
}

func NewMongoBookingIntentRepository(db *mongo.Database) *MongoBookingIntentRepository {
	return &MongoBookingIntentRepository{coll: db.Collection(bookingIntentsCollection)}
}

func (r *MongoBookingIntentRepository) Enqueue(ctx context.Context, intent *domain.BookingIntent) error {
	doc := toModelBookingIntent(intent)
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": doc.LeaseRequestID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return nil
}

func (r *MongoBookingIntentRepository) Get(ctx context.Context, leaseRequestID uuid.UUID) (*domain.BookingIntent, error) {
	var m model.BookingIntent
	if err := r.coll.FindOne(ctx, bson.M{"_id": leaseRequestID.String()}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingIntentNotFound
		}
		return nil, err
	}
	return toDomainBookingIntent(&m), nil
}

func (r *MongoBookingIntentRepository) ListPending(ctx context.Context, limit int) ([]*domain.BookingIntent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}, {Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"status": string(domain.IntentStatusPending)}, opts)
	if err != nil {
		return nil, err
	}
	var docs []model.BookingIntent
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.BookingIntent, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainBookingIntent(&docs[i]))
	}
	return out, nil
}

func (r *MongoBookingIntentRepository) Update(ctx context.Context, intent *domain.BookingIntent) error {
	doc := toModelBookingIntent(intent)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.LeaseRequestID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBookingIntentNotFound
	}
	return nil
}
