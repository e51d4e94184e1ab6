package repository

import (
	"checkin/internal/model"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminRepo handles MongoDB operations for admin accounts
type AdminRepo interface {
	EnsureIndexes(ctx context.Context) error
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Upsert(ctx context.Context, admin *model.Admin) error
}

type adminRepo struct {
	collection *mongo.Collection
}

// NewAdminRepo creates a new admin repository
func NewAdminRepo(db *mongo.Database) AdminRepo {
	return &adminRepo{
		collection: db.Collection("admins"),
	}
}

func (r *adminRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	})
	return err
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Upsert creates the admin or replaces its password hash, keyed by email
func (r *adminRepo) Upsert(ctx context.Context, admin *model.Admin) error {
	admin.Email = strings.ToLower(admin.Email)
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}

	update := bson.M{
		"$set": bson.M{"passwordHash": admin.PasswordHash},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"createdAt": admin.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved model.Admin
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": admin.Email}, update, opts).Decode(&saved); err != nil {
		return err
	}
	*admin = saved
	return nil
}
