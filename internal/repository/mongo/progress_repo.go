package mongo

import (
	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "progress_snapshots"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new progress snapshot repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts a new progress snapshot.
func (r *mongoProgressRepository) Create(ctx context.Context, snapshot *domain.ProgressSnapshot) (primitive.ObjectID, error) {
	if snapshot.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("snapshot requires clientId")
	}

	snapshot.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	snapshot.CreatedAt = now
	snapshot.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, snapshot)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted snapshot ID")
	}
	return insertedID, nil
}

// GetByID retrieves a snapshot by its ID.
func (r *mongoProgressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressSnapshot, error) {
	var snapshot domain.ProgressSnapshot
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&snapshot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

// GetByClientID retrieves all snapshots for a client, newest first.
func (r *mongoProgressRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressSnapshot, error) {
	var snapshots []domain.ProgressSnapshot
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Update overwrites the mutable fields of a stored snapshot.
func (r *mongoProgressRepository) Update(ctx context.Context, snapshot *domain.ProgressSnapshot) error {
	if snapshot.ID == primitive.NilObjectID {
		return errors.New("snapshot ID is required for update")
	}

	filter := bson.M{"_id": snapshot.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"date":         snapshot.Date,
			"weight":       snapshot.Weight,
			"measurements": snapshot.Measurements,
			"photoKeys":    snapshot.PhotoKeys,
			"notes":        snapshot.Notes,
			"updatedAt":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a snapshot, requiring client ownership in the filter.
func (r *mongoProgressRepository) Delete(ctx context.Context, id primitive.ObjectID, clientID primitive.ObjectID) error {
	filter := bson.M{
		"_id":      id,
		"clientId": clientID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressIndexes creates necessary indexes. Call during startup.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
