package service

import (
	"context"
	"testing"

	"alcyxob/fitconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddClientByEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewTrainerService(users)
	ctx := context.Background()

	trainer := users.addUser(domain.User{Name: "Coach", Email: "coach@test.io", Role: domain.RoleTrainer})
	client := users.addUser(domain.User{Name: "Athlete", Email: "athlete@test.io", Role: domain.RoleClient})

	added, err := svc.AddClientByEmail(ctx, trainer.ID, "athlete@test.io")
	require.NoError(t, err)
	require.NotNil(t, added.TrainerID)
	assert.Equal(t, trainer.ID, *added.TrainerID)
	assert.Empty(t, added.PasswordHash)

	// The link is written on both sides.
	clients, err := svc.ManagedClients(ctx, trainer.ID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, client.ID, clients[0].ID)

	// Re-adding the same client is idempotent.
	_, err = svc.AddClientByEmail(ctx, trainer.ID, "athlete@test.io")
	require.NoError(t, err)
	clients, _ = svc.ManagedClients(ctx, trainer.ID)
	assert.Len(t, clients, 1)
}

func TestAddClientByEmailRejections(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewTrainerService(users)
	ctx := context.Background()

	trainer := users.addUser(domain.User{Name: "Coach", Email: "coach@test.io", Role: domain.RoleTrainer})
	rival := users.addUser(domain.User{Name: "Rival", Email: "rival@test.io", Role: domain.RoleTrainer})
	users.addUser(domain.User{Name: "Athlete", Email: "athlete@test.io", Role: domain.RoleClient, TrainerID: &rival.ID})

	_, err := svc.AddClientByEmail(ctx, trainer.ID, "nobody@test.io")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.AddClientByEmail(ctx, trainer.ID, "rival@test.io")
	assert.ErrorIs(t, err, ErrUserNotClient)

	_, err = svc.AddClientByEmail(ctx, trainer.ID, "athlete@test.io")
	assert.ErrorIs(t, err, ErrClientAlreadyTaken)

	_, err = svc.AddClientByEmail(ctx, primitive.NewObjectID(), "athlete@test.io")
	assert.Error(t, err)
}
