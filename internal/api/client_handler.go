package api

import (
	"errors"
	"net/http"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/schedule"
	"alcyxob/fitconnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler serves the client-side endpoints: program reads, workout
// logging sessions, and progress tracking.
type ClientHandler struct {
	programService  service.ProgramService
	loggingService  service.LoggingService
	progressService service.ProgressService
}

func NewClientHandler(
	programService service.ProgramService,
	loggingService service.LoggingService,
	progressService service.ProgressService,
) *ClientHandler {
	return &ClientHandler{
		programService:  programService,
		loggingService:  loggingService,
		progressService: progressService,
	}
}

// --- DTOs ---

type UpdateSetRequest struct {
	ExerciseID string             `json:"exerciseId" binding:"required"`
	SetNumber  int                `json:"setNumber" binding:"required,min=1"`
	Update     schedule.SetUpdate `json:"update"`
}

type ToggleSetRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
	SetNumber  int    `json:"setNumber" binding:"required,min=1"`
}

type ExerciseNotesRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
	Notes      string `json:"notes"`
}

type OverallNotesRequest struct {
	Notes string `json:"notes"`
}

type RatingRequest struct {
	Rating int `json:"rating" binding:"min=0,max=5"`
}

type CurrentWeekResponse struct {
	Week     domain.Week           `json:"week"`
	Progress schedule.WeekProgress `json:"progress"`
}

type AttachPhotoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Program reads ---

// GetMyPrograms lists the programs assigned to the client.
func (h *ClientHandler) GetMyPrograms(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	programs, err := h.programService.GetProgramsByClient(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	c.JSON(http.StatusOK, programs)
}

// GetProgram returns one of the client's own programs.
func (h *ClientHandler) GetProgram(c *gin.Context) {
	clientID, programID, ok := clientProgramParams(c)
	if !ok {
		return
	}

	program, err := h.programService.GetClientProgram(c.Request.Context(), clientID, programID)
	if err != nil {
		h.mapClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// TodaysWorkout returns the day scheduled for today, if any.
func (h *ClientHandler) TodaysWorkout(c *gin.Context) {
	clientID, programID, ok := clientProgramParams(c)
	if !ok {
		return
	}

	day, err := h.programService.TodaysWorkout(c.Request.Context(), clientID, programID)
	if err != nil {
		if errors.Is(err, service.ErrNoWorkoutToday) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		h.mapClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// CurrentWeek returns the week containing today plus its progress summary.
func (h *ClientHandler) CurrentWeek(c *gin.Context) {
	clientID, programID, ok := clientProgramParams(c)
	if !ok {
		return
	}

	week, progress, err := h.programService.CurrentWeek(c.Request.Context(), clientID, programID)
	if err != nil {
		h.mapClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, CurrentWeekResponse{Week: *week, Progress: *progress})
}

// --- Logging sessions ---

// StartSession opens a logging session against one day of the client's
// program. In-progress days resume from their saved log.
func (h *ClientHandler) StartSession(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, weekNumber, dayOfWeek, ok := dayPathParams(c)
	if !ok {
		return
	}

	view, err := h.loggingService.StartSession(c.Request.Context(), clientID, programID, weekNumber, dayOfWeek)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoExercisesToLog):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrWorkoutNotLogable):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			h.mapClientError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession returns the current session snapshot.
func (h *ClientHandler) GetSession(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	view, err := h.loggingService.GetSession(clientID, c.Param("sessionId"))
	if err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateSet merges a partial update into one set of the session.
func (h *ClientHandler) UpdateSet(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	view, err := h.loggingService.UpdateSet(clientID, c.Param("sessionId"), req.ExerciseID, req.SetNumber, req.Update)
	if err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleSet flips one set's completed flag.
func (h *ClientHandler) ToggleSet(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	var req ToggleSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	view, err := h.loggingService.ToggleSetCompleted(clientID, c.Param("sessionId"), req.ExerciseID, req.SetNumber)
	if err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetExerciseNotes records notes against one exercise of the session.
func (h *ClientHandler) SetExerciseNotes(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	var req ExerciseNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.loggingService.SetExerciseNotes(clientID, c.Param("sessionId"), req.ExerciseID, req.Notes); err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetOverallNotes records notes for the whole session.
func (h *ClientHandler) SetOverallNotes(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	var req OverallNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.loggingService.SetOverallNotes(clientID, c.Param("sessionId"), req.Notes); err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetRating records the 1-5 session rating.
func (h *ClientHandler) SetRating(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.loggingService.SetRating(clientID, c.Param("sessionId"), req.Rating); err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.mapSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveProgress persists the partial log; the session stays open.
func (h *ClientHandler) SaveProgress(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	program, err := h.loggingService.SaveProgress(c.Request.Context(), clientID, c.Param("sessionId"))
	if err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// SubmitWorkout persists the final log and closes the session.
func (h *ClientHandler) SubmitWorkout(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	program, err := h.loggingService.Submit(c.Request.Context(), clientID, c.Param("sessionId"))
	if err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// AbandonSession discards the session without persisting anything.
func (h *ClientHandler) AbandonSession(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	if err := h.loggingService.Abandon(clientID, c.Param("sessionId")); err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Progress tracking ---

// CreateSnapshot records a new progress snapshot.
func (h *ClientHandler) CreateSnapshot(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	var input service.SnapshotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	snapshot, err := h.progressService.CreateSnapshot(c.Request.Context(), clientID, input)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// GetSnapshots lists the client's own snapshots, newest first.
func (h *ClientHandler) GetSnapshots(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	snapshots, err := h.progressService.GetSnapshotsForClient(c.Request.Context(), clientID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve progress snapshots.")
		return
	}
	if snapshots == nil {
		snapshots = []domain.ProgressSnapshot{}
	}
	c.JSON(http.StatusOK, snapshots)
}

// LatestSnapshot returns the most recent snapshot.
func (h *ClientHandler) LatestSnapshot(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	snapshot, err := h.progressService.LatestSnapshot(c.Request.Context(), clientID, clientID)
	if err != nil {
		h.mapSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// WeightHistory returns (date, weight) points oldest first.
func (h *ClientHandler) WeightHistory(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	points, err := h.progressService.WeightHistory(c.Request.Context(), clientID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve weight history.")
		return
	}
	c.JSON(http.StatusOK, points)
}

// UpdateSnapshot overwrites the mutable fields of a snapshot.
func (h *ClientHandler) UpdateSnapshot(c *gin.Context) {
	clientID, snapshotID, ok := clientSnapshotParams(c)
	if !ok {
		return
	}
	var input service.SnapshotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	snapshot, err := h.progressService.UpdateSnapshot(c.Request.Context(), clientID, snapshotID, input)
	if err != nil {
		h.mapSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// DeleteSnapshot removes a snapshot and its photos.
func (h *ClientHandler) DeleteSnapshot(c *gin.Context) {
	clientID, snapshotID, ok := clientSnapshotParams(c)
	if !ok {
		return
	}

	if err := h.progressService.DeleteSnapshot(c.Request.Context(), clientID, snapshotID); err != nil {
		h.mapSnapshotError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUpload returns a presigned PUT URL for one progress photo.
func (h *ClientHandler) RequestPhotoUpload(c *gin.Context) {
	clientID, snapshotID, ok := clientSnapshotParams(c)
	if !ok {
		return
	}
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	upload, err := h.progressService.RequestPhotoUploadURL(c.Request.Context(), clientID, snapshotID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.mapSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// AttachPhoto records an uploaded photo's key on the snapshot.
func (h *ClientHandler) AttachPhoto(c *gin.Context) {
	clientID, snapshotID, ok := clientSnapshotParams(c)
	if !ok {
		return
	}
	var req AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	snapshot, err := h.progressService.AttachPhoto(c.Request.Context(), clientID, snapshotID, req.ObjectKey)
	if err != nil {
		h.mapSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// PhotoURLs returns presigned GET URLs for a snapshot's photos.
func (h *ClientHandler) PhotoURLs(c *gin.Context) {
	clientID, snapshotID, ok := clientSnapshotParams(c)
	if !ok {
		return
	}

	urls, err := h.progressService.PhotoDownloadURLs(c.Request.Context(), clientID, snapshotID)
	if err != nil {
		h.mapSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// --- helpers ---

func (h *ClientHandler) mapClientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, schedule.ErrWeekNotFound), errors.Is(err, schedule.ErrDayNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

func (h *ClientHandler) mapSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWorkoutNotLogable):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		h.mapClientError(c, err)
	}
}

func (h *ClientHandler) mapSnapshotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSnapshotNotFound), errors.Is(err, service.ErrPhotoNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSnapshotAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

func clientProgramParams(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return clientID, programID, true
}

func clientSnapshotParams(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	snapshotID, err := primitive.ObjectIDFromHex(c.Param("snapshotId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid snapshot ID format.")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return clientID, snapshotID, true
}
