package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/middleware"
	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/response"
	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

type SettingsHandler struct {
	settings SettingsService
}

func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": toSettingsDTO(settings)})
}

// PUT /api/settings
// body: { "intervals": {"easy":[...],"medium":[...],"hard":[...]}, "preferred_review_days": [1,3], "timezone": "Europe/Moscow" }
func (h *SettingsHandler) Save(c *gin.Context) {
	var req struct {
		Intervals           entities.IntervalTable `json:"intervals"`
		PreferredReviewDays []int                  `json:"preferred_review_days"`
		Timezone            string                 `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindError(err))
		return
	}

	days := make([]time.Weekday, 0, len(req.PreferredReviewDays))
	for _, d := range req.PreferredReviewDays {
		days = append(days, time.Weekday(d))
	}

	settings, err := h.settings.Save(c.Request.Context(), middleware.OwnerID(c), req.Intervals, days, req.Timezone)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": toSettingsDTO(settings)})
}

// GET /api/settings/defaults
func (h *SettingsHandler) Defaults(c *gin.Context) {
	response.RespondOK(c, gin.H{"intervals": h.settings.Defaults()})
}

// GET /api/settings/intervals/:difficulty
func (h *SettingsHandler) IntervalsFor(c *gin.Context) {
	d, err := entities.ParseDifficulty(c.Param("difficulty"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	days, err := h.settings.IntervalsFor(c.Request.Context(), middleware.OwnerID(c), d)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"difficulty": d.String(), "intervals": days})
}
