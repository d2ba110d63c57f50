package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"faucetdrop-bot/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoHistoryDoc is the MongoDB document shape for one claim.
// A monotonic sequence field preserves append order across reads.
type mongoHistoryDoc struct {
	Seq       int64  `bson:"seq"`
	ClaimedAt string `bson:"claimed_at"`
	Email     string `bson:"email"`
	UserID    int64  `bson:"user_id"`
	Username  string `bson:"username,omitempty"`
	FirstName string `bson:"first_name,omitempty"`
	LastName  string `bson:"last_name,omitempty"`
}

// MongoDBHistoryRepository implements HistoryRepository for MongoDB.
type MongoDBHistoryRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDBHistoryRepository creates a new MongoDB history repository.
func NewMongoDBHistoryRepository(uri, dbName, collectionName string) (*MongoDBHistoryRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	collection := client.Database(dbName).Collection(collectionName)

	log.Printf("[MongoDBHistoryRepository] Initialized - db:%s, collection:%s", dbName, collectionName)
	return &MongoDBHistoryRepository{
		client:     client,
		collection: collection,
	}, nil
}

// Append inserts one history entry.
func (r *MongoDBHistoryRepository) Append(ctx context.Context, entry model.HistoryEntry) error {
	doc := mongoHistoryDoc{
		Seq:       time.Now().UnixNano(),
		ClaimedAt: entry.Timestamp,
		Email:     entry.Email,
		UserID:    entry.UserID,
		Username:  entry.Username,
		FirstName: entry.FirstName,
		LastName:  entry.LastName,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// ReadAll returns all entries in append order.
func (r *MongoDBHistoryRepository) ReadAll(ctx context.Context) ([]model.HistoryEntry, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "seq", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoHistoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, model.HistoryEntry{
			Timestamp: doc.ClaimedAt,
			Email:     doc.Email,
			UserID:    doc.UserID,
			Username:  doc.Username,
			FirstName: doc.FirstName,
			LastName:  doc.LastName,
		})
	}

	return entries, nil
}

// Clear removes all persisted entries.
func (r *MongoDBHistoryRepository) Clear(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBHistoryRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// Ensure MongoDBHistoryRepository implements HistoryRepository
var _ HistoryRepository = (*MongoDBHistoryRepository)(nil)
