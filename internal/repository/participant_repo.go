package repository

import (
	"checkin/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ParticipantRepo interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, participant *model.Participant) error
	ExistsByPhone(ctx context.Context, sessionID, phone string) (bool, error)
	ListBySession(ctx context.Context, sessionID string) ([]*model.Participant, error)
}

type participantRepo struct {
	collection *mongo.Collection
}

func NewParticipantRepo(db *mongo.Database) ParticipantRepo {
	return &participantRepo{
		collection: db.Collection("participants"),
	}
}

func (r *participantRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "phone", Value: 1}},
			Options: options.Index().SetName("session_phone_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "joinedAt", Value: -1}},
			Options: options.Index().SetName("session_joined_desc"),
		},
	})
	return err
}

// Create inserts the participant with a server-assigned joinedAt
func (r *participantRepo) Create(ctx context.Context, participant *model.Participant) error {
	if participant.ID == "" {
		participant.ID = primitive.NewObjectID().Hex()
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"sessionId": participant.SessionID,
			"name":      participant.Name,
			"phone":     participant.Phone,
			"ipAddress": participant.IPAddress,
		},
		"$currentDate": bson.M{"joinedAt": true},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var created model.Participant
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": participant.ID}, update, opts).Decode(&created)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}

	*participant = created
	return nil
}

func (r *participantRepo) ExistsByPhone(ctx context.Context, sessionID, phone string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"sessionId": sessionID, "phone": phone},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListBySession returns the session's participants, newest first
func (r *participantRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.Participant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	participants := []*model.Participant{}
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}
