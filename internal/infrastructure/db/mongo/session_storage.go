package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "portal_session_values"

// SessionStorage keeps session values as one document per key.
type SessionStorage struct {
	col *mongo.Collection
	ttl time.Duration
	now func() time.Time
}

// NewSessionStorage returns a storage over the portal session collection.
// Documents untouched for ttl are removed by the TTL index.
func NewSessionStorage(db *mongo.Database, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		col: db.Collection(sessionCollection),
		ttl: ttl,
		now: time.Now,
	}
}

type sessionValue struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the expiry index on the session collection.
func (s *SessionStorage) EnsureIndexes(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(s.ttl.Seconds())),
	})
	return err
}

func (s *SessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var doc sessionValue
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find session value: %w", err)
	}
	return doc.Value, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, key, value string) error {
	doc := sessionValue{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session value: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}}); err != nil {
		return fmt.Errorf("delete session values: %w", err)
	}
	return nil
}
