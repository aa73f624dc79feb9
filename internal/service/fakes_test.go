package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/repository"
	"alcyxob/fitconnect/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mimic the mongo adapters' semantics:
// whole-document replace, ErrNotFound sentinels, newest-first listings.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	trainer, ok := r.users[trainerID]
	if !ok || !trainer.IsTrainer() {
		return repository.ErrNotFound
	}
	for _, id := range trainer.ClientIDs {
		if id == clientID {
			return nil
		}
	}
	trainer.ClientIDs = append(trainer.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	trainer, ok := r.users[trainerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clients := make([]domain.User, 0, len(trainer.ClientIDs))
	for _, id := range trainer.ClientIDs {
		if c, ok := r.users[id]; ok {
			clients = append(clients, *c)
		}
	}
	return clients, nil
}

func (r *fakeUserRepo) SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	client, ok := r.users[clientID]
	if !ok || !client.IsClient() {
		return repository.ErrNotFound
	}
	id := trainerID
	client.TrainerID = &id
	return nil
}

// addUser seeds a user with a fresh ID and returns it.
func (r *fakeUserRepo) addUser(u domain.User) domain.User {
	if u.ID == primitive.NilObjectID {
		u.ID = primitive.NewObjectID()
	}
	copied := u
	r.users[u.ID] = &copied
	return u
}

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]domain.Program
	seq      int
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[primitive.ObjectID]domain.Program)}
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	r.seq++
	program.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	program.UpdatedAt = program.CreatedAt
	r.programs[program.ID] = *program
	return program.ID, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProgramRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Program, error) {
	return r.list(func(p domain.Program) bool { return p.TrainerID == trainerID }), nil
}

func (r *fakeProgramRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error) {
	return r.list(func(p domain.Program) bool { return p.ClientID == clientID }), nil
}

func (r *fakeProgramRepo) GetActive(ctx context.Context) ([]domain.Program, error) {
	return r.list(func(p domain.Program) bool { return p.Status == domain.ProgramActive }), nil
}

func (r *fakeProgramRepo) Replace(ctx context.Context, program *domain.Program) error {
	if _, ok := r.programs[program.ID]; !ok {
		return repository.ErrNotFound
	}
	program.UpdatedAt = time.Now().UTC()
	r.programs[program.ID] = *program
	return nil
}

func (r *fakeProgramRepo) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	p, ok := r.programs[id]
	if !ok || p.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(r.programs, id)
	return nil
}

func (r *fakeProgramRepo) list(match func(domain.Program) bool) []domain.Program {
	var out []domain.Program
	for _, p := range r.programs {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type fakeProgressRepo struct {
	snapshots map[primitive.ObjectID]domain.ProgressSnapshot
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{snapshots: make(map[primitive.ObjectID]domain.ProgressSnapshot)}
}

func (r *fakeProgressRepo) Create(ctx context.Context, snapshot *domain.ProgressSnapshot) (primitive.ObjectID, error) {
	snapshot.ID = primitive.NewObjectID()
	r.snapshots[snapshot.ID] = *snapshot
	return snapshot.ID, nil
}

func (r *fakeProgressRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressSnapshot, error) {
	s, ok := r.snapshots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeProgressRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressSnapshot, error) {
	var out []domain.ProgressSnapshot
	for _, s := range r.snapshots {
		if s.ClientID == clientID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeProgressRepo) Update(ctx context.Context, snapshot *domain.ProgressSnapshot) error {
	if _, ok := r.snapshots[snapshot.ID]; !ok {
		return repository.ErrNotFound
	}
	r.snapshots[snapshot.ID] = *snapshot
	return nil
}

func (r *fakeProgressRepo) Delete(ctx context.Context, id primitive.ObjectID, clientID primitive.ObjectID) error {
	s, ok := r.snapshots[id]
	if !ok || s.ClientID != clientID {
		return repository.ErrNotFound
	}
	delete(r.snapshots, id)
	return nil
}

// fakeStorage records operations and hands out deterministic URLs.
type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// sequentialIDs returns a deterministic ID generator: id-1, id-2, ...
func sequentialIDs() schedule.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
