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

const productCollection = "products"

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Find(ctx context.Context, limit int64) ([]model.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	Insert(ctx context.Context, product *model.Product) (primitive.ObjectID, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	UpsertByName(ctx context.Context, product *model.Product) (created bool, err error)
}

type productRepository struct {
	col *mongo.Collection
}

// NewProductRepository builds a Mongo-backed repository.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{col: db.Collection(productCollection)}
}

// Find lists products, newest first. A limit of zero means no limit.
func (r *productRepository) Find(ctx context.Context, limit int64) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var product model.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Insert(ctx context.Context, product *model.Product) (primitive.ObjectID, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	product.ID = id
	return id, nil
}

// DeleteByID removes the product and returns it, or mongo.ErrNoDocuments
// when nothing matched. No other record is touched.
func (r *productRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var product model.Product
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpsertByName creates or refreshes a product keyed by name. Used by the
// seed script, which must be re-runnable.
func (r *productRepository) UpsertByName(ctx context.Context, product *model.Product) (bool, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	update := bson.M{
		"$set": bson.M{
			"price":       product.Price,
			"description": product.Description,
			"image":       product.Image,
			"status":      product.Status,
		},
		"$setOnInsert": bson.M{
			"created_at": product.CreatedAt,
		},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"name": product.Name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
