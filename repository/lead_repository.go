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

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindByPhone(ctx context.Context, phone string) (*models.Lead, error)
	FindAll(ctx context.Context) ([]models.Lead, error)
}

type mongoLeadRepo struct {
	collection *mongo.Collection
}

func NewMongoLeadRepo(db *mongo.Database) LeadRepository {
	return &mongoLeadRepo{collection: db.Collection("leads")}
}

func (r *mongoLeadRepo) Create(ctx context.Context, lead *models.Lead) error {
	lead.Timestamp = time.Now().UTC()
	res, err := r.collection.InsertOne(ctx, lead)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid
	}
	return nil
}

func (r *mongoLeadRepo) FindByPhone(ctx context.Context, phone string) (*models.Lead, error) {
	var lead models.Lead
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&lead)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *mongoLeadRepo) FindAll(ctx context.Context) ([]models.Lead, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}
