package api

import (
	"errors"
	"net/http"
	"strconv"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/schedule"
	"alcyxob/fitconnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler serves the trainer-side program endpoints.
type ProgramHandler struct {
	trainerService  service.TrainerService
	programService  service.ProgramService
	progressService service.ProgressService
}

func NewProgramHandler(
	trainerService service.TrainerService,
	programService service.ProgramService,
	progressService service.ProgressService,
) *ProgramHandler {
	return &ProgramHandler{
		trainerService:  trainerService,
		programService:  programService,
		progressService: progressService,
	}
}

// --- DTOs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

type UpdateStatusRequest struct {
	Status domain.ProgramStatus `json:"status" binding:"required,oneof=draft active completed paused"`
}

type ReorderExerciseRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type CopyWeekRequest struct {
	SourceWeek int `json:"sourceWeek" binding:"required,min=1"`
	TargetWeek int `json:"targetWeek" binding:"required,min=1"`
}

// --- Client roster ---

// AddClientByEmail associates an existing client user with the trainer.
func (h *ProgramHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUserNotClient), errors.Is(err, service.ErrClientAlreadyTaken):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the trainer's client roster.
func (h *ProgramHandler) GetManagedClients(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	clients, err := h.trainerService.ManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve managed clients.")
		return
	}

	responses := make([]UserResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, MapUserToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// --- Program authoring ---

// CreateProgram creates a new program for one of the trainer's clients.
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	var input service.CreateProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), trainerID, clientID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired),
			errors.Is(err, service.ErrStartDateRequired),
			errors.Is(err, service.ErrInvalidDuration):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create program.")
		}
		return
	}

	c.JSON(http.StatusCreated, program)
}

// GetTrainerPrograms lists every program the trainer authored.
func (h *ProgramHandler) GetTrainerPrograms(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	programs, err := h.programService.GetProgramsByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	c.JSON(http.StatusOK, programs)
}

// GetProgram returns one program owned by the trainer.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		h.mapProgramError(c, err)
		return
	}
	if program.TrainerID != trainerID {
		abortWithError(c, http.StatusForbidden, service.ErrProgramAccessDenied.Error())
		return
	}
	c.JSON(http.StatusOK, program)
}

// UpdateProgramStatus moves a program between draft/active/completed/paused.
func (h *ProgramHandler) UpdateProgramStatus(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.programService.UpdateProgramStatus(c.Request.Context(), trainerID, programID, req.Status)
	if err != nil {
		h.mapProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// UpdateDayWorkout replaces a day's authored content.
func (h *ProgramHandler) UpdateDayWorkout(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, weekNumber, dayOfWeek, ok := dayPathParams(c)
	if !ok {
		return
	}

	var input service.UpdateDayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.programService.UpdateDayWorkout(c.Request.Context(), trainerID, programID, weekNumber, dayOfWeek, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidExercise) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.mapProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// ReorderExercise moves an exercise up or down within its day.
func (h *ProgramHandler) ReorderExercise(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, weekNumber, dayOfWeek, ok := dayPathParams(c)
	if !ok {
		return
	}
	exerciseID := c.Param("exerciseId")

	var req ReorderExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.programService.ReorderExercise(c.Request.Context(), trainerID, programID, weekNumber, dayOfWeek, exerciseID, req.Direction == "up")
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		h.mapProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// CopyWeek clones one week's structure onto another week of the program.
func (h *ProgramHandler) CopyWeek(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	var req CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.SourceWeek == req.TargetWeek {
		abortWithError(c, http.StatusBadRequest, "Source and target weeks must differ.")
		return
	}

	program, err := h.programService.CopyWeek(c.Request.Context(), trainerID, programID, req.SourceWeek, req.TargetWeek)
	if err != nil {
		h.mapProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// DeleteProgram removes a program owned by the trainer.
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), trainerID, programID); err != nil {
		h.mapProgramError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Review workflow ---

// PendingReviews lists submitted days awaiting the trainer's feedback.
func (h *ProgramHandler) PendingReviews(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	pending, err := h.programService.PendingReviews(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve pending reviews.")
		return
	}
	if pending == nil {
		pending = []schedule.PendingReview{}
	}
	c.JSON(http.StatusOK, pending)
}

// SubmitReview attaches trainer feedback to a submitted day.
func (h *ProgramHandler) SubmitReview(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	programID, weekNumber, dayOfWeek, ok := dayPathParams(c)
	if !ok {
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.programService.SubmitReview(c.Request.Context(), trainerID, programID, weekNumber, dayOfWeek, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, schedule.ErrDayNotSubmitted):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			h.mapProgramError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, program)
}

// --- Client progress (trainer read access) ---

// GetClientProgress lists a managed client's progress snapshots.
func (h *ProgramHandler) GetClientProgress(c *gin.Context) {
	trainerID, ok := currentUserObjectID(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	snapshots, err := h.progressService.GetSnapshotsForClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSnapshotAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve progress.")
		}
		return
	}
	if snapshots == nil {
		snapshots = []domain.ProgressSnapshot{}
	}
	c.JSON(http.StatusOK, snapshots)
}

// --- helpers ---

// mapProgramError translates the common program service sentinels.
func (h *ProgramHandler) mapProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidProgramStatus):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, schedule.ErrWeekNotFound), errors.Is(err, schedule.ErrDayNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// dayPathParams parses the programId/weekNumber/dayOfWeek path triple.
func dayPathParams(c *gin.Context) (primitive.ObjectID, int, domain.DayOfWeek, bool) {
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return primitive.NilObjectID, 0, "", false
	}

	weekNumber, err := strconv.Atoi(c.Param("weekNumber"))
	if err != nil || weekNumber < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid week number.")
		return primitive.NilObjectID, 0, "", false
	}

	dayOfWeek := domain.DayOfWeek(c.Param("dayOfWeek"))
	valid := false
	for _, d := range domain.DayOrder {
		if d == dayOfWeek {
			valid = true
			break
		}
	}
	if !valid {
		abortWithError(c, http.StatusBadRequest, "Invalid day of week.")
		return primitive.NilObjectID, 0, "", false
	}

	return programID, weekNumber, dayOfWeek, true
}
