package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moonchanyong/arom-server/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateTokens(ctx context.Context, userID, authToken, refreshToken string) error
	ClearTokens(ctx context.Context, userID string) error
	AddDevice(ctx context.Context, userID, deviceID, name string) error
	RemoveDevice(ctx context.Context, userID, deviceID string) error
}

type userRepo struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepo{col: db.Collection("users")}
}

// EnsureUserIndexes creates the uniqueness indexes the account invariants
// lean on: one account per email, user_id, kakao_id, facebook_id.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("users")
	unique := options.Index().SetUnique(true)
	sparseUnique := options.Index().SetUnique(true).SetSparse(true)
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "kakao_id", Value: 1}}, Options: sparseUnique},
		{Keys: bson.D{{Key: "facebook_id", Value: 1}}, Options: sparseUnique},
	})
	return err
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *userRepo) FindByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{provider + "_id": providerID})
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"user_id": user.UserID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateTokens(ctx context.Context, userID, authToken, refreshToken string) error {
	update := bson.M{"$set": bson.M{
		"auth_token":    authToken,
		"refresh_token": refreshToken,
	}}
	return r.updateOne(ctx, userID, update)
}

func (r *userRepo) ClearTokens(ctx context.Context, userID string) error {
	update := bson.M{"$unset": bson.M{
		"auth_token":   "",
		"access_token": "",
	}}
	return r.updateOne(ctx, userID, update)
}

func (r *userRepo) AddDevice(ctx context.Context, userID, deviceID, name string) error {
	update := bson.M{"$set": bson.M{"devices." + deviceID: name}}
	return r.updateOne(ctx, userID, update)
}

func (r *userRepo) RemoveDevice(ctx context.Context, userID, deviceID string) error {
	update := bson.M{"$unset": bson.M{"devices." + deviceID: ""}}
	return r.updateOne(ctx, userID, update)
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) updateOne(ctx context.Context, userID string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
