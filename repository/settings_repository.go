package repository

import (
	"context"

	"storefront-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsRepository interface {
	GetBanner(ctx context.Context, key string) (*models.Banner, error)
	// PutBanner overwrites the singleton document wholesale.
	PutBanner(ctx context.Context, banner *models.Banner) error
}

type mongoSettingsRepo struct {
	collection *mongo.Collection
}

func NewMongoSettingsRepo(db *mongo.Database) SettingsRepository {
	return &mongoSettingsRepo{collection: db.Collection("settings")}
}

func (r *mongoSettingsRepo) GetBanner(ctx context.Context, key string) (*models.Banner, error) {
	var banner models.Banner
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *mongoSettingsRepo) PutBanner(ctx context.Context, banner *models.Banner) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": banner.Key},
		banner,
		options.Replace().SetUpsert(true),
	)
	return err
}
