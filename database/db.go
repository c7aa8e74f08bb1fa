package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	MongoClient *mongo.Client
	DB          *mongo.Database
)

// Connect connects to MongoDB using the provided URI and database name.
func Connect(mongoURL, dbName string) error {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURL)

	client, err := mongo.Connect(timeoutCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(timeoutCtx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	MongoClient = client
	DB = client.Database(dbName)
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on: the lead
// phone dedupe key, the composite cart key, and the order-history sort.
func EnsureIndexes(ctx context.Context) error {
	leadIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := DB.Collection("leads").Indexes().CreateOne(ctx, leadIdx); err != nil {
		return fmt.Errorf("leads index: %w", err)
	}

	cartIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := DB.Collection("carts").Indexes().CreateOne(ctx, cartIdx); err != nil {
		return fmt.Errorf("carts index: %w", err)
	}

	orderIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "orderDate", Value: -1}},
	}
	if _, err := DB.Collection("orders").Indexes().CreateOne(ctx, orderIdx); err != nil {
		return fmt.Errorf("orders index: %w", err)
	}

	productIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	if _, err := DB.Collection("products").Indexes().CreateOne(ctx, productIdx); err != nil {
		return fmt.Errorf("products index: %w", err)
	}

	return nil
}

// Close disconnects from MongoDB.
func Close() error {
	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := MongoClient.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
