package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds connection settings for the Mongo-backed Store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore implements Store on MongoDB, a pluggable alternative to
// MySQLStore.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctxTimeout time.Duration
}

type mongoDoc struct {
	UUID      string    `bson:"_id"`
	Username  string    `bson:"username"`
	FirstSeen time.Time `bson:"first_seen"`
	LastSeen  time.Time `bson:"last_seen"`
	Banned    bool      `bson:"banned"`
	BanReason string    `bson:"ban_reason"`
}

// NewMongoStore connects, pings, and ensures indexes.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "kestrel"
	}
	if cfg.Collection == "" {
		cfg.Collection = "profiles"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("profile: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("profile: ping mongo: %w", err)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	usernameIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("username_idx"),
	}
	if _, err := coll.Indexes().CreateOne(ctx, usernameIdx); err != nil {
		return nil, fmt.Errorf("profile: ensure index: %w", err)
	}
	return &MongoStore{client: client, collection: coll, ctxTimeout: 5 * time.Second}, nil
}

func (m *MongoStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	var doc mongoDoc
	err := m.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: get: %w", err)
	}
	return docToRecord(doc), nil
}

func (m *MongoStore) Upsert(ctx context.Context, id uuid.UUID, username string) (*Record, error) {
	now := time.Now()
	_, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{
			"$set":         bson.M{"username": username, "last_seen": now},
			"$setOnInsert": bson.M{"first_seen": now, "banned": false, "ban_reason": ""},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("profile: upsert: %w", err)
	}
	return m.Get(ctx, id)
}

func (m *MongoStore) SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string) error {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"banned": banned, "ban_reason": reason}},
	)
	if err != nil {
		return fmt.Errorf("profile: set banned: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.ctxTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func docToRecord(doc mongoDoc) *Record {
	id, _ := uuid.Parse(doc.UUID)
	return &Record{
		UUID:      id,
		Username:  doc.Username,
		FirstSeen: doc.FirstSeen,
		LastSeen:  doc.LastSeen,
		Banned:    doc.Banned,
		BanReason: doc.BanReason,
	}
}
