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

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository.
// Programs are stored as single documents with weeks/days/exercises embedded,
// so every write is a whole-document replace.
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new program.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.TrainerID == primitive.NilObjectID || program.ClientID == primitive.NilObjectID || program.Title == "" {
		return primitive.NilObjectID, errors.New("program requires trainerId, clientId, and title")
	}

	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted program ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single program by its ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByTrainerID retrieves all programs authored by a trainer, newest first.
func (r *mongoProgramRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Program, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

// GetByClientID retrieves all programs assigned to a client, newest first.
func (r *mongoProgramRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

// GetActive retrieves every program with status active, for the daily
// unlock sweep.
func (r *mongoProgramRepository) GetActive(ctx context.Context) ([]domain.Program, error) {
	return r.find(ctx, bson.M{"status": domain.ProgramActive})
}

func (r *mongoProgramRepository) find(ctx context.Context, filter bson.M) ([]domain.Program, error) {
	var programs []domain.Program
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	// Empty slice when nothing matches; absence is not an error for listings.
	return programs, nil
}

// Replace overwrites the stored program document with the given value.
// This is the only mutation path: callers load the whole program, apply
// their change in memory, and replace. Nothing merges concurrent edits.
func (r *mongoProgramRepository) Replace(ctx context.Context, program *domain.Program) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for replace")
	}

	program.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": program.ID}

	result, err := r.collection.ReplaceOne(ctx, filter, program)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program, requiring trainer ownership in the filter.
func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	if id == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return errors.New("program ID and trainer ID are required for deletion")
	}

	filter := bson.M{
		"_id":       id,
		"trainerId": trainerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the program does not exist or it belongs to another trainer.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
		{
			// The unlock sweep scans active programs daily.
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
