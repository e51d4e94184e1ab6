package repository

import (
	"checkin/internal/model"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateKey is returned when a unique index rejects a write
var ErrDuplicateKey = errors.New("duplicate key")

type SessionRepo interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	FindActive(ctx context.Context) (*model.Session, error)
	End(ctx context.Context, id string) (*model.Session, error)
	IncrementJoined(ctx context.Context, id string, delta int) error
	ListRecent(ctx context.Context, limit int) ([]*model.Session, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Only documents with isActive=true take part, so ended sessions never collide
			Keys: bson.D{{Key: "isActive", Value: 1}},
			Options: options.Index().
				SetName("one_active_session").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{
			Keys:    bson.D{{Key: "startTime", Value: -1}},
			Options: options.Index().SetName("start_time_desc"),
		},
	})
	return err
}

// Create inserts the session and lets the server stamp startTime.
func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"requiredContacts": session.RequiredContacts,
			"joinedContacts":   session.JoinedContacts,
			"isActive":         session.IsActive,
			"createdBy":        session.CreatedBy,
			"createdByEmail":   session.CreatedByEmail,
		},
		"$currentDate": bson.M{"startTime": true},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var created model.Session
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": session.ID}, update, opts).Decode(&created)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}

	*session = created
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindActive(ctx context.Context) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"isActive": true}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// End flips isActive and stamps endTime. It returns nil, nil when the
// session is missing or already ended.
func (r *sessionRepo) End(ctx context.Context, id string) (*model.Session, error) {
	update := bson.M{
		"$set":         bson.M{"isActive": false},
		"$currentDate": bson.M{"endTime": true},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session model.Session
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "isActive": true}, update, opts).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) IncrementJoined(ctx context.Context, id string, delta int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"joinedContacts": delta},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *sessionRepo) ListRecent(ctx context.Context, limit int) ([]*model.Session, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "startTime", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []*model.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
