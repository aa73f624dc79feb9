package repository

import (
	"alcyxob/fitconnect/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program records.
//
// Programs are read and written as whole documents: load the entire program,
// mutate in memory, replace the entire record. There are no partial field
// updates and no cross-document transactions; concurrent writers to the same
// program do last-write-wins (a documented limitation, not a supported mode).
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Program, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error)
	GetActive(ctx context.Context) ([]domain.Program, error)
	Replace(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure trainer owns the program
}

// ProgressRepository defines the interface for client progress snapshots.
type ProgressRepository interface {
	Create(ctx context.Context, snapshot *domain.ProgressSnapshot) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressSnapshot, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressSnapshot, error)
	Update(ctx context.Context, snapshot *domain.ProgressSnapshot) error
	Delete(ctx context.Context, id primitive.ObjectID, clientID primitive.ObjectID) error
}
