package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carshop/internal/model"
)

const userCollection = "Users"

// UserRepository defines user persistence operations. Absence is reported as
// mongo.ErrNoDocuments; callers must branch on it before touching the record.
type UserRepository interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, user *model.User) (primitive.ObjectID, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	PromoteByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository builds a Mongo-backed repository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique index on email, the identity join key.
// Creating an index that already exists is a no-op, so this runs on every
// startup.
func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *userRepository) Insert(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	user.ID = id
	return id, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PromoteByEmail sets the user's role to admin and returns the updated
// record, or mongo.ErrNoDocuments when no user matches the email.
func (r *userRepository) PromoteByEmail(ctx context.Context, email string) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": model.RoleAdmin}},
		opts,
	).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
