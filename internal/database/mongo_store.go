package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

// findByUser runs a per-user query sorted by sortField (descending, then
// created_at descending). limit <= 0 means no limit.
func findByUser(ctx context.Context, coll *mongo.Collection, userID, sortField string, limit, skip int, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sortKeys := bson.D{{Key: sortField, Value: -1}}
	if sortField != "created_at" {
		sortKeys = append(sortKeys, bson.E{Key: "created_at", Value: -1})
	}
	findOptions := options.Find().SetSort(sortKeys)
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	if skip > 0 {
		findOptions.SetSkip(int64(skip))
	}

	cursor, err := coll.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, dest)
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// MongoActivityStore keeps activity records in the "activities" collection.
type MongoActivityStore struct {
	coll *mongo.Collection
}

func NewMongoActivityStore(db *mongo.Database) *MongoActivityStore {
	return &MongoActivityStore{coll: db.Collection(ActivitiesCollection)}
}

// Insert stores rec, assigning an ID when it has none.
func (s *MongoActivityStore) Insert(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	if err := rec.Validate(); err != nil {
		return models.ActivityRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := insertOne(ctx, s.coll, rec); err != nil {
		return models.ActivityRecord{}, fmt.Errorf("insert activity: %w", err)
	}
	return rec, nil
}

// FindByUser returns every record for userID, newest first.
func (s *MongoActivityStore) FindByUser(ctx context.Context, userID string) ([]models.ActivityRecord, error) {
	return s.ListByUser(ctx, userID, 0)
}

// ListByUser returns at most limit records for userID, newest first.
func (s *MongoActivityStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.ActivityRecord, error) {
	records := []models.ActivityRecord{}
	if err := findByUser(ctx, s.coll, userID, "date", limit, 0, &records); err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}
	return records, nil
}

// MongoJournalStore keeps journal entries in the "journals" collection.
type MongoJournalStore struct {
	coll *mongo.Collection
}

func NewMongoJournalStore(db *mongo.Database) *MongoJournalStore {
	return &MongoJournalStore{coll: db.Collection(JournalsCollection)}
}

func (s *MongoJournalStore) Insert(ctx context.Context, j models.Journal) (models.Journal, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if err := insertOne(ctx, s.coll, j); err != nil {
		return models.Journal{}, fmt.Errorf("insert journal: %w", err)
	}
	return j, nil
}

// ListByUser returns a page of journals (newest first) and the user's total count.
func (s *MongoJournalStore) ListByUser(ctx context.Context, userID string, limit, skip int) ([]models.Journal, int64, error) {
	countCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	total, err := s.coll.CountDocuments(countCtx, bson.M{"user_id": userID})
	cancel()
	if err != nil {
		return nil, 0, fmt.Errorf("count journals: %w", err)
	}

	journals := []models.Journal{}
	if err := findByUser(ctx, s.coll, userID, "created_at", limit, skip, &journals); err != nil {
		return nil, 0, fmt.Errorf("find journals: %w", err)
	}
	return journals, total, nil
}

// MongoMeditationStore keeps meditation sessions in the "meditations" collection.
type MongoMeditationStore struct {
	coll *mongo.Collection
}

func NewMongoMeditationStore(db *mongo.Database) *MongoMeditationStore {
	return &MongoMeditationStore{coll: db.Collection(MeditationsCollection)}
}

func (s *MongoMeditationStore) Insert(ctx context.Context, m models.MeditationSession) (models.MeditationSession, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := insertOne(ctx, s.coll, m); err != nil {
		return models.MeditationSession{}, fmt.Errorf("insert meditation: %w", err)
	}
	return m, nil
}

func (s *MongoMeditationStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.MeditationSession, error) {
	sessions := []models.MeditationSession{}
	if err := findByUser(ctx, s.coll, userID, "date", limit, 0, &sessions); err != nil {
		return nil, fmt.Errorf("find meditations: %w", err)
	}
	return sessions, nil
}

// MongoMoodStore keeps mood entries in the "moods" collection.
type MongoMoodStore struct {
	coll *mongo.Collection
}

func NewMongoMoodStore(db *mongo.Database) *MongoMoodStore {
	return &MongoMoodStore{coll: db.Collection(MoodsCollection)}
}

func (s *MongoMoodStore) Insert(ctx context.Context, m models.MoodEntry) (models.MoodEntry, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := insertOne(ctx, s.coll, m); err != nil {
		return models.MoodEntry{}, fmt.Errorf("insert mood: %w", err)
	}
	return m, nil
}

func (s *MongoMoodStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	entries := []models.MoodEntry{}
	if err := findByUser(ctx, s.coll, userID, "created_at", limit, 0, &entries); err != nil {
		return nil, fmt.Errorf("find moods: %w", err)
	}
	return entries, nil
}
