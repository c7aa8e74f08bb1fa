package repository

import (
	"context"
	"time"

	"storefront-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartRepository interface {
	// AddOrIncrement upserts the (userId, productId) line: a missing line
	// is created with quantity 1, an existing one gets an atomic $inc so
	// concurrent adds from multiple tabs never lose an update.
	AddOrIncrement(ctx context.Context, item *models.CartItem) error
	Find(ctx context.Context, userID, productID string) (*models.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Delete(ctx context.Context, userID, productID string) error
	DeleteAll(ctx context.Context, userID string) error
	FindAll(ctx context.Context, userID string) ([]models.CartItem, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type mongoCartRepo struct {
	collection *mongo.Collection
}

func NewMongoCartRepo(db *mongo.Database) CartRepository {
	return &mongoCartRepo{collection: db.Collection("carts")}
}

func (r *mongoCartRepo) AddOrIncrement(ctx context.Context, item *models.CartItem) error {
	filter := bson.M{"userId": item.UserID, "productId": item.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": 1},
		"$setOnInsert": bson.M{
			"name":     item.Name,
			"price":    item.Price,
			"imageUrl": item.ImageURL,
			"addedAt":  time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoCartRepo) Find(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mongoCartRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"userId": userID, "productId": productID},
		bson.M{"$set": bson.M{"quantity": quantity}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCartRepo) Delete(ctx context.Context, userID, productID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCartRepo) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func (r *mongoCartRepo) FindAll(ctx context.Context, userID string) ([]models.CartItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Count re-reads the collection size; the cart badge never trusts a
// client-side running counter.
func (r *mongoCartRepo) Count(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}
