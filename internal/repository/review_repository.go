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

const reviewCollection = "Reviews"

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Find(ctx context.Context, limit int64) ([]model.Review, error)
	Insert(ctx context.Context, review *model.Review) (primitive.ObjectID, error)
}

type reviewRepository struct {
	col *mongo.Collection
}

// NewReviewRepository builds a Mongo-backed repository.
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{col: db.Collection(reviewCollection)}
}

func (r *reviewRepository) Find(ctx context.Context, limit int64) ([]model.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []model.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Insert(ctx context.Context, review *model.Review) (primitive.ObjectID, error) {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	review.ID = id
	return id, nil
}
