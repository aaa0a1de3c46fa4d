package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobportal/portal/internal/core/ports"
)

const sessionCollection = "client_sessions"

// SessionBackend stores each session key as one document keyed by _id.
type SessionBackend struct {
	coll *mongo.Collection
}

type sessionDoc struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (b *SessionBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var doc sessionDoc
	err := b.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find session key %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (b *SessionBackend) Set(ctx context.Context, key, value string) error {
	doc := sessionDoc{Key: key, Value: value, UpdatedAt: time.Now().UTC().Unix()}
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session key %s: %w", key, err)
	}
	return nil
}

func (b *SessionBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete session key %s: %w", key, err)
	}
	return nil
}

func (b *SessionBackend) Ping(ctx context.Context) error {
	return b.coll.Database().Client().Ping(ctx, nil)
}

func (b *SessionBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return b.coll.Database().Client().Disconnect(ctx)
}

var _ ports.KeyValueStore = (*SessionBackend)(nil)
