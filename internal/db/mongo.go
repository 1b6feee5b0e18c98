package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// ConnectMongo connects to MongoDB at uri and pings it.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoAssetCollection reads assets from a MongoDB collection.
type MongoAssetCollection struct {
	Collection *mongo.Collection
}

// NewMongoAssetCollection returns the asset collection of database dbName.
func NewMongoAssetCollection(client *mongo.Client, dbName, collection string) *MongoAssetCollection {
	return &MongoAssetCollection{Collection: client.Database(dbName).Collection(collection)}
}

func assetQuery(filter AssetFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

// FindAssets returns every asset matching filter, ordered by asset ID.
func (c *MongoAssetCollection) FindAssets(ctx context.Context, filter AssetFilter) ([]models.Asset, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}

	opts := options.Find().SetSort(bson.D{{Key: "asset_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cursor, err := c.Collection.Find(ctx, assetQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find assets: %w", err)
	}
	defer cursor.Close(ctx)

	assets := []models.Asset{}
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	log.WithFields(log.Fields{"category": filter.Category, "count": len(assets)}).Debug("Loaded assets")
	return assets, nil
}

// FindAssetByID finds an asset by its asset ID.
func (c *MongoAssetCollection) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}

	var asset models.Asset
	err := c.Collection.FindOne(ctx, bson.M{"asset_id": id}).Decode(&asset)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}
