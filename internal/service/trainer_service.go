package service

import (
	"context"
	"errors"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTrainerNotFound    = errors.New("trainer not found")
	ErrUserNotClient      = errors.New("user with this email is not a client")
	ErrClientAlreadyTaken = errors.New("client is already managed by another trainer")
)

// --- Service Interface ---

// TrainerService manages a trainer's client roster. Programs can only be
// created for clients on the roster.
type TrainerService interface {
	ManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
}

// --- Service Implementation ---

type trainerService struct {
	userRepo repository.UserRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(userRepo repository.UserRepository) TrainerService {
	return &trainerService{userRepo: userRepo}
}

// ManagedClients lists the clients on the trainer's roster.
func (s *trainerService) ManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// AddClientByEmail links an existing client account to the trainer. The
// link is written on both sides: the trainer's clientIds array and the
// client's trainerId field.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if clientEmail == "" {
		return nil, errors.New("client email cannot be empty")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrUserNotClient
	}
	if client.TrainerID != nil && *client.TrainerID != trainerID {
		return nil, ErrClientAlreadyTaken
	}

	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if err := s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID); err != nil {
		return nil, err
	}

	client.TrainerID = &trainerID
	client.PasswordHash = ""
	return client, nil
}
