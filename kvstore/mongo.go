package kvstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type document struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func ConnectMongo(ctx context.Context, uri string, database string, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return &MongoStore{client: client, collection: client.Database(database).Collection(collection)}, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		document{Key: key, Value: string(value)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
