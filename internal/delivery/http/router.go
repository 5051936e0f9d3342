package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpH "github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/handlers"
	httpMW "github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/middleware"
)

type RouterConfig struct {
	Logger         *zap.Logger
	AllowedOrigins []string

	TopicHandler    *httpH.TopicHandler
	RevisionHandler *httpH.RevisionHandler
	SettingsHandler *httpH.SettingsHandler
	AgendaHandler   *httpH.AgendaHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(httpMW.RequestLogger(cfg.Logger), httpMW.RequireOwner())
	{
		// Topics
		if cfg.TopicHandler != nil {
			api.GET("/topics", cfg.TopicHandler.ListMainTopics)
			api.POST("/topics", cfg.TopicHandler.CreateMainTopic)
			api.GET("/topics/hierarchy", cfg.TopicHandler.Hierarchy)
			api.PUT("/topics/:id", cfg.TopicHandler.UpdateMainTopic)
			api.DELETE("/topics/:id", cfg.TopicHandler.DeleteMainTopic)
			api.GET("/topics/:id/subtopics", cfg.TopicHandler.ListSubTopicsByMainTopic)

			api.GET("/subtopics", cfg.TopicHandler.ListSubTopics)
			api.POST("/subtopics", cfg.TopicHandler.CreateSubTopic)
			api.PUT("/subtopics/:id", cfg.TopicHandler.UpdateSubTopic)
			api.DELETE("/subtopics/:id", cfg.TopicHandler.DeleteSubTopic)
			api.POST("/subtopics/:id/completed", cfg.TopicHandler.MarkCompleted)
			api.DELETE("/subtopics/:id/completed", cfg.TopicHandler.MarkPending)
		}

		// Revisions
		if cfg.RevisionHandler != nil {
			api.GET("/subtopics/:id/planned-dates", cfg.RevisionHandler.PlannedDates)
			api.POST("/subtopics/:id/revisions/:number", cfg.RevisionHandler.MarkRevision)
			api.DELETE("/subtopics/:id/revisions/:number", cfg.RevisionHandler.UnmarkRevision)
			api.POST("/subtopics/:id/review", cfg.RevisionHandler.MarkNextReviewed)
			api.POST("/subtopics/:id/reschedule", cfg.RevisionHandler.Reschedule)
			api.GET("/planned-dates", cfg.RevisionHandler.AllPlannedDates)
			api.GET("/schedules", cfg.RevisionHandler.Schedules)
			api.POST("/schedules/reset", cfg.RevisionHandler.ResetProgress)
		}

		// Settings
		if cfg.SettingsHandler != nil {
			api.GET("/settings", cfg.SettingsHandler.Get)
			api.PUT("/settings", cfg.SettingsHandler.Save)
			api.GET("/settings/defaults", cfg.SettingsHandler.Defaults)
			api.GET("/settings/intervals/:difficulty", cfg.SettingsHandler.IntervalsFor)
		}

		// Agenda
		if cfg.AgendaHandler != nil {
			api.GET("/agenda/due", cfg.AgendaHandler.DueOn)
			api.GET("/agenda/overdue", cfg.AgendaHandler.OverdueAsOf)
			api.GET("/agenda/today", cfg.AgendaHandler.Today)
			api.GET("/agenda/planned", cfg.AgendaHandler.Planned)
			api.GET("/agenda/calendar", cfg.AgendaHandler.Calendar)
			api.GET("/agenda/missed", cfg.AgendaHandler.MissedDates)
		}
	}

	return r
}
