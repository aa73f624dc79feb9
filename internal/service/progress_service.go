package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/repository"
	"alcyxob/fitconnect/internal/schedule"
	"alcyxob/fitconnect/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSnapshotNotFound     = errors.New("progress snapshot not found")
	ErrSnapshotAccessDenied = errors.New("access denied to this progress snapshot")
	ErrInvalidContentType   = errors.New("unsupported photo content type")
	ErrPhotoNotFound        = errors.New("photo not found on snapshot")
)

var allowedPhotoContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SnapshotInput carries the client-supplied fields of a progress snapshot.
type SnapshotInput struct {
	ProgramID    *primitive.ObjectID  `json:"programId"`
	Date         time.Time            `json:"date"`
	Weight       float64              `json:"weight"`
	Measurements *domain.Measurements `json:"measurements"`
	Notes        string               `json:"notes"`
}

// WeightPoint is one entry in a client's weight history, oldest first.
type WeightPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// PhotoUpload pairs a storage key with the presigned URL a client PUTs
// the photo bytes to. The key is echoed back via AttachPhoto once the
// upload succeeds.
type PhotoUpload struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// --- Service Interface ---
type ProgressService interface {
	CreateSnapshot(ctx context.Context, clientID primitive.ObjectID, input SnapshotInput) (*domain.ProgressSnapshot, error)
	UpdateSnapshot(ctx context.Context, clientID, snapshotID primitive.ObjectID, input SnapshotInput) (*domain.ProgressSnapshot, error)
	DeleteSnapshot(ctx context.Context, clientID, snapshotID primitive.ObjectID) error

	GetSnapshotsForClient(ctx context.Context, requesterID, clientID primitive.ObjectID) ([]domain.ProgressSnapshot, error)
	LatestSnapshot(ctx context.Context, requesterID, clientID primitive.ObjectID) (*domain.ProgressSnapshot, error)
	WeightHistory(ctx context.Context, requesterID, clientID primitive.ObjectID) ([]WeightPoint, error)

	// Photo flow: request a presigned upload URL, PUT the bytes, then
	// attach the returned key to the snapshot.
	RequestPhotoUploadURL(ctx context.Context, clientID, snapshotID primitive.ObjectID, contentType string) (*PhotoUpload, error)
	AttachPhoto(ctx context.Context, clientID, snapshotID primitive.ObjectID, objectKey string) (*domain.ProgressSnapshot, error)
	RemovePhoto(ctx context.Context, clientID, snapshotID primitive.ObjectID, objectKey string) error
	PhotoDownloadURLs(ctx context.Context, requesterID, snapshotID primitive.ObjectID) ([]string, error)
}

// --- Service Implementation ---

type progressService struct {
	progressRepo repository.ProgressRepository
	userRepo     repository.UserRepository
	fileStorage  storage.FileStorage
	clock        schedule.Clock
	newID        schedule.IDGenerator
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	clock schedule.Clock,
	newID schedule.IDGenerator,
) ProgressService {
	if clock == nil {
		clock = schedule.SystemClock()
	}
	if newID == nil {
		newID = schedule.NewID
	}
	return &progressService{
		progressRepo: progressRepo,
		userRepo:     userRepo,
		fileStorage:  fileStorage,
		clock:        clock,
		newID:        newID,
	}
}

// CreateSnapshot records a new progress snapshot for the client. An empty
// date defaults to today.
func (s *progressService) CreateSnapshot(ctx context.Context, clientID primitive.ObjectID, input SnapshotInput) (*domain.ProgressSnapshot, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if input.Weight < 0 {
		return nil, errors.New("weight cannot be negative")
	}

	date := input.Date
	if date.IsZero() {
		date = s.clock.Today()
	}

	snapshot := &domain.ProgressSnapshot{
		ClientID:     clientID,
		ProgramID:    input.ProgramID,
		Date:         schedule.DateOnly(date),
		Weight:       input.Weight,
		Measurements: input.Measurements,
		PhotoKeys:    []string{},
		Notes:        input.Notes,
	}

	snapshotID, err := s.progressRepo.Create(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	snapshot.ID = snapshotID
	return snapshot, nil
}

// UpdateSnapshot overwrites the mutable fields of a snapshot owned by the
// client. Photo keys are managed through the photo flow, not here.
func (s *progressService) UpdateSnapshot(ctx context.Context, clientID, snapshotID primitive.ObjectID, input SnapshotInput) (*domain.ProgressSnapshot, error) {
	snapshot, err := s.loadOwnedSnapshot(ctx, clientID, snapshotID)
	if err != nil {
		return nil, err
	}

	if !input.Date.IsZero() {
		snapshot.Date = schedule.DateOnly(input.Date)
	}
	snapshot.Weight = input.Weight
	snapshot.Measurements = input.Measurements
	snapshot.Notes = input.Notes

	if err := s.progressRepo.Update(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// DeleteSnapshot removes a snapshot and its stored photos.
func (s *progressService) DeleteSnapshot(ctx context.Context, clientID, snapshotID primitive.ObjectID) error {
	snapshot, err := s.loadOwnedSnapshot(ctx, clientID, snapshotID)
	if err != nil {
		return err
	}

	if err := s.progressRepo.Delete(ctx, snapshotID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSnapshotNotFound
		}
		return err
	}

	// Best effort; an orphaned object costs storage, not correctness.
	for _, key := range snapshot.PhotoKeys {
		_ = s.fileStorage.DeleteObject(ctx, key)
	}
	return nil
}

// GetSnapshotsForClient lists a client's snapshots, newest first. Clients
// read their own; trainers read those of clients they manage.
func (s *progressService) GetSnapshotsForClient(ctx context.Context, requesterID, clientID primitive.ObjectID) ([]domain.ProgressSnapshot, error) {
	if err := s.authorizeRead(ctx, requesterID, clientID); err != nil {
		return nil, err
	}
	return s.progressRepo.GetByClientID(ctx, clientID)
}

// LatestSnapshot returns the most recent snapshot by date.
func (s *progressService) LatestSnapshot(ctx context.Context, requesterID, clientID primitive.ObjectID) (*domain.ProgressSnapshot, error) {
	snapshots, err := s.GetSnapshotsForClient(ctx, requesterID, clientID)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, ErrSnapshotNotFound
	}
	return &snapshots[0], nil
}

// WeightHistory returns (date, weight) points oldest first, skipping
// snapshots without a recorded weight.
func (s *progressService) WeightHistory(ctx context.Context, requesterID, clientID primitive.ObjectID) ([]WeightPoint, error) {
	snapshots, err := s.GetSnapshotsForClient(ctx, requesterID, clientID)
	if err != nil {
		return nil, err
	}

	points := make([]WeightPoint, 0, len(snapshots))
	// Repository returns newest first; walk backwards for a chart-ready order.
	for i := len(snapshots) - 1; i >= 0; i-- {
		if snapshots[i].Weight <= 0 {
			continue
		}
		points = append(points, WeightPoint{
			Date:   snapshots[i].Date,
			Weight: snapshots[i].Weight,
		})
	}
	return points, nil
}

// RequestPhotoUploadURL generates a storage key and a presigned PUT URL
// for one progress photo.
func (s *progressService) RequestPhotoUploadURL(ctx context.Context, clientID, snapshotID primitive.ObjectID, contentType string) (*PhotoUpload, error) {
	ext, ok := allowedPhotoContentTypes[contentType]
	if !ok {
		return nil, ErrInvalidContentType
	}

	if _, err := s.loadOwnedSnapshot(ctx, clientID, snapshotID); err != nil {
		return nil, err
	}

	objectKey := path.Join("progress", clientID.Hex(), snapshotID.Hex(), fmt.Sprintf("%s%s", s.newID(), ext))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return &PhotoUpload{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// AttachPhoto records an uploaded photo's key on the snapshot. The key
// must be one this service minted for the same snapshot.
func (s *progressService) AttachPhoto(ctx context.Context, clientID, snapshotID primitive.ObjectID, objectKey string) (*domain.ProgressSnapshot, error) {
	snapshot, err := s.loadOwnedSnapshot(ctx, clientID, snapshotID)
	if err != nil {
		return nil, err
	}

	expectedPrefix := path.Join("progress", clientID.Hex(), snapshotID.Hex()) + "/"
	if len(objectKey) <= len(expectedPrefix) || objectKey[:len(expectedPrefix)] != expectedPrefix {
		return nil, errors.New("object key does not belong to this snapshot")
	}

	for _, key := range snapshot.PhotoKeys {
		if key == objectKey {
			return snapshot, nil // Already attached
		}
	}

	snapshot.PhotoKeys = append(snapshot.PhotoKeys, objectKey)
	if err := s.progressRepo.Update(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RemovePhoto detaches and deletes one photo from a snapshot.
func (s *progressService) RemovePhoto(ctx context.Context, clientID, snapshotID primitive.ObjectID, objectKey string) error {
	snapshot, err := s.loadOwnedSnapshot(ctx, clientID, snapshotID)
	if err != nil {
		return err
	}

	idx := -1
	for i, key := range snapshot.PhotoKeys {
		if key == objectKey {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrPhotoNotFound
	}

	snapshot.PhotoKeys = append(snapshot.PhotoKeys[:idx], snapshot.PhotoKeys[idx+1:]...)
	if err := s.progressRepo.Update(ctx, snapshot); err != nil {
		return err
	}

	_ = s.fileStorage.DeleteObject(ctx, objectKey)
	return nil
}

// PhotoDownloadURLs returns presigned GET URLs for every photo on a
// snapshot, for the owner or their trainer.
func (s *progressService) PhotoDownloadURLs(ctx context.Context, requesterID, snapshotID primitive.ObjectID) ([]string, error) {
	snapshot, err := s.progressRepo.GetByID(ctx, snapshotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	if err := s.authorizeRead(ctx, requesterID, snapshot.ClientID); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(snapshot.PhotoKeys))
	for _, key := range snapshot.PhotoKeys {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to generate download URL for %s: %w", key, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// authorizeRead allows the client themselves or the trainer who manages
// them.
func (s *progressService) authorizeRead(ctx context.Context, requesterID, clientID primitive.ObjectID) error {
	if requesterID == clientID {
		return nil
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.TrainerID != nil && *client.TrainerID == requesterID {
		return nil
	}
	return ErrSnapshotAccessDenied
}

func (s *progressService) loadOwnedSnapshot(ctx context.Context, clientID, snapshotID primitive.ObjectID) (*domain.ProgressSnapshot, error) {
	snapshot, err := s.progressRepo.GetByID(ctx, snapshotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	if snapshot.ClientID != clientID {
		return nil, ErrSnapshotAccessDenied
	}
	return snapshot, nil
}
