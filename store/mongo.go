package store

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores each key as a {_id, value} document in a single
// collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type kvDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// NewMongo connects to uri and uses the "kv" collection of dbName.
func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	log.Println("connected to MongoDB")
	return &Mongo{
		client: client,
		coll:   client.Database(dbName).Collection("kv"),
	}, nil
}

func (m *Mongo) Get(ctx context.Context, key string) (string, error) {
	var doc kvDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.Value, nil
}

func (m *Mongo) Set(ctx context.Context, key, value string) error {
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key},
		kvDoc{Key: key, Value: value}, options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) Delete(ctx context.Context, key string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
