package api

import (
	"net/http"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	programService service.ProgramService,
	loggingService service.LoggingService,
	progressService service.ProgressService,
) {
	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(trainerService, programService, progressService)
	clientHandler := NewClientHandler(programService, loggingService, progressService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/clients", programHandler.AddClientByEmail)
			trainerGroup.GET("/clients", programHandler.GetManagedClients)
			trainerGroup.GET("/clients/:clientId/progress", programHandler.GetClientProgress)

			trainerGroup.POST("/clients/:clientId/programs", programHandler.CreateProgram)
			trainerGroup.GET("/programs", programHandler.GetTrainerPrograms)
			trainerGroup.GET("/programs/:programId", programHandler.GetProgram)
			trainerGroup.PATCH("/programs/:programId/status", programHandler.UpdateProgramStatus)
			trainerGroup.DELETE("/programs/:programId", programHandler.DeleteProgram)

			trainerGroup.PUT("/programs/:programId/weeks/:weekNumber/days/:dayOfWeek", programHandler.UpdateDayWorkout)
			trainerGroup.POST("/programs/:programId/weeks/:weekNumber/days/:dayOfWeek/exercises/:exerciseId/reorder", programHandler.ReorderExercise)
			trainerGroup.POST("/programs/:programId/copy-week", programHandler.CopyWeek)

			trainerGroup.GET("/reviews/pending", programHandler.PendingReviews)
			trainerGroup.POST("/programs/:programId/weeks/:weekNumber/days/:dayOfWeek/review", programHandler.SubmitReview)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/programs", clientHandler.GetMyPrograms)
			clientGroup.GET("/programs/:programId", clientHandler.GetProgram)
			clientGroup.GET("/programs/:programId/today", clientHandler.TodaysWorkout)
			clientGroup.GET("/programs/:programId/current-week", clientHandler.CurrentWeek)

			// Workout logging sessions
			clientGroup.POST("/programs/:programId/weeks/:weekNumber/days/:dayOfWeek/session", clientHandler.StartSession)
			clientGroup.GET("/sessions/:sessionId", clientHandler.GetSession)
			clientGroup.PATCH("/sessions/:sessionId/sets", clientHandler.UpdateSet)
			clientGroup.POST("/sessions/:sessionId/sets/toggle", clientHandler.ToggleSet)
			clientGroup.PUT("/sessions/:sessionId/exercise-notes", clientHandler.SetExerciseNotes)
			clientGroup.PUT("/sessions/:sessionId/notes", clientHandler.SetOverallNotes)
			clientGroup.PUT("/sessions/:sessionId/rating", clientHandler.SetRating)
			clientGroup.POST("/sessions/:sessionId/save", clientHandler.SaveProgress)
			clientGroup.POST("/sessions/:sessionId/submit", clientHandler.SubmitWorkout)
			clientGroup.DELETE("/sessions/:sessionId", clientHandler.AbandonSession)

			// Progress tracking. Snapshot item routes live under /snapshots
			// so the literal /latest and /weight-history segments do not
			// collide with a path parameter.
			clientGroup.POST("/progress", clientHandler.CreateSnapshot)
			clientGroup.GET("/progress", clientHandler.GetSnapshots)
			clientGroup.GET("/progress/latest", clientHandler.LatestSnapshot)
			clientGroup.GET("/progress/weight-history", clientHandler.WeightHistory)
			clientGroup.PUT("/progress/snapshots/:snapshotId", clientHandler.UpdateSnapshot)
			clientGroup.DELETE("/progress/snapshots/:snapshotId", clientHandler.DeleteSnapshot)
			clientGroup.POST("/progress/snapshots/:snapshotId/photos", clientHandler.RequestPhotoUpload)
			clientGroup.POST("/progress/snapshots/:snapshotId/photos/attach", clientHandler.AttachPhoto)
			clientGroup.GET("/progress/snapshots/:snapshotId/photos", clientHandler.PhotoURLs)
		}
	}
}
