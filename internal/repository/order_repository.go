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

const orderCollection = "Orders"

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Find(ctx context.Context, limit int64) ([]model.Order, error)
	FindByEmail(ctx context.Context, email string, limit int64) ([]model.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	Insert(ctx context.Context, order *model.Order) (primitive.ObjectID, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) (*model.Order, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
}

type orderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository builds a Mongo-backed repository.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{col: db.Collection(orderCollection)}
}

func (r *orderRepository) Find(ctx context.Context, limit int64) ([]model.Order, error) {
	return r.find(ctx, bson.M{}, limit)
}

// FindByEmail lists only orders owned by the given email.
func (r *orderRepository) FindByEmail(ctx context.Context, email string, limit int64) ([]model.Order, error) {
	return r.find(ctx, bson.M{"email": email}, limit)
}

func (r *orderRepository) find(ctx context.Context, filter bson.M, limit int64) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []model.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var order model.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Insert(ctx context.Context, order *model.Order) (primitive.ObjectID, error) {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	order.ID = id
	return id, nil
}

// UpdateStatus sets the order status and returns the updated record, or
// mongo.ErrNoDocuments when nothing matched.
func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) (*model.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order model.Order
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var order model.Order
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}
