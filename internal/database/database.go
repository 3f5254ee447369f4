package database

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ActivitiesCollection  = "activities"
	JournalsCollection    = "journals"
	MeditationsCollection = "meditations"
	MoodsCollection       = "moods"
)

const defaultDatabaseName = "serenify"

// queryTimeout bounds every single store round trip.
const queryTimeout = 5 * time.Second

var (
	// ErrNotFound is returned when a looked-up row or document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("already exists")
)

// Connect opens and pings a MongoDB client and selects the database named in
// the URI path (default "serenify").
func Connect(ctx context.Context, mongoURI string) (*mongo.Client, *mongo.Database, error) {
	// Use longer timeout for Atlas connections
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	log.Printf("Attempting to connect to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Println("✅ Connected to MongoDB")
	return client, client.Database(DatabaseName(mongoURI)), nil
}

// Disconnect closes the MongoDB client.
func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// DatabaseName extracts the database from mongodb://host/<name>?opts.
func DatabaseName(mongoURI string) string {
	rest := mongoURI
	if idx := strings.Index(rest, "://"); idx != -1 {
		rest = rest[idx+3:]
	}
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return defaultDatabaseName
	}
	name := strings.SplitN(rest[idx+1:], "?", 2)[0]
	if name == "" {
		return defaultDatabaseName
	}
	return name
}

// MaskURI hides the password of a connection string for logging.
func MaskURI(uri string) string {
	schemeEnd := strings.Index(uri, "://")
	at := strings.LastIndex(uri, "@")
	if schemeEnd == -1 || at == -1 || at < schemeEnd {
		return uri
	}
	creds := uri[schemeEnd+3 : at]
	colon := strings.Index(creds, ":")
	if colon == -1 {
		return uri
	}
	return uri[:schemeEnd+3] + creds[:colon] + ":***" + uri[at:]
}

// EnsureMongoIndexes creates the per-user indexes every list query relies on.
// Called on startup from main after Mongo has connected.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		ActivitiesCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_user_date"),
		},
		JournalsCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		MeditationsCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_user_date"),
		},
		MoodsCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
	}

	for collection, m := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
