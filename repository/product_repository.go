package repository

import (
	"context"
	"time"

	"storefront-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// FindNewArrivals backs the "All" tab, which historically shows only
	// products flagged isNewArrival, newest first.
	FindNewArrivals(ctx context.Context) ([]models.Product, error)
	FindByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, updates bson.M) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type mongoProductRepo struct {
	collection *mongo.Collection
}

func NewMongoProductRepo(db *mongo.Database) ProductRepository {
	return &mongoProductRepo{collection: db.Collection("products")}
}

func (r *mongoProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *mongoProductRepo) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepo) FindNewArrivals(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{"isNewArrival": true})
}

func (r *mongoProductRepo) FindByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return r.find(ctx, bson.M{"category": categoryID})
}

func (r *mongoProductRepo) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoProductRepo) Create(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now().UTC()
	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

func (r *mongoProductRepo) Update(ctx context.Context, id string, updates bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	updates["updatedAt"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProductRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProductRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"category": categoryID})
}
