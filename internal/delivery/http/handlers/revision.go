package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/middleware"
	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/response"
)

type RevisionHandler struct {
	revisions RevisionService
	reset     ResetService
}

func NewRevisionHandler(revisions RevisionService, reset ResetService) *RevisionHandler {
	return &RevisionHandler{revisions: revisions, reset: reset}
}

// GET /api/subtopics/:id/planned-dates
func (h *RevisionHandler) PlannedDates(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	dates, err := h.revisions.PlannedDates(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sub_topic_id": id, "dates": unixNanos(dates)})
}

// GET /api/planned-dates
func (h *RevisionHandler) AllPlannedDates(c *gin.Context) {
	all, err := h.revisions.AllPlannedDates(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	out := make([]plannedDatesDTO, 0, len(all))
	for _, p := range all {
		out = append(out, toPlannedDatesDTO(p))
	}
	response.RespondOK(c, gin.H{"planned": out})
}

// GET /api/schedules
func (h *RevisionHandler) Schedules(c *gin.Context) {
	items, err := h.revisions.Schedules(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"schedules": toTrackedDTOs(items)})
}

// POST /api/subtopics/:id/revisions/:number
func (h *RevisionHandler) MarkRevision(c *gin.Context) {
	h.toggleRevision(c, true)
}

// DELETE /api/subtopics/:id/revisions/:number
func (h *RevisionHandler) UnmarkRevision(c *gin.Context) {
	h.toggleRevision(c, false)
}

func (h *RevisionHandler) toggleRevision(c *gin.Context, done bool) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	number, err := pathInt(c, "number")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)
	if done {
		err = h.revisions.MarkRevision(ctx, ownerID, id, number)
	} else {
		err = h.revisions.UnmarkRevision(ctx, ownerID, id, number)
	}
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.respondTracked(c, ownerID, id)
}

// POST /api/subtopics/:id/review
func (h *RevisionHandler) MarkNextReviewed(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	ownerID := middleware.OwnerID(c)
	if _, err := h.revisions.MarkNextReviewed(c.Request.Context(), ownerID, id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.respondTracked(c, ownerID, id)
}

// POST /api/subtopics/:id/reschedule
func (h *RevisionHandler) Reschedule(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	ownerID := middleware.OwnerID(c)
	if _, err := h.revisions.RescheduleToNextDay(c.Request.Context(), ownerID, id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.respondTracked(c, ownerID, id)
}

// POST /api/schedules/reset
func (h *RevisionHandler) ResetProgress(c *gin.Context) {
	if err := h.reset.ResetProgress(c.Request.Context(), middleware.OwnerID(c)); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *RevisionHandler) respondTracked(c *gin.Context, ownerID int64, id uuid.UUID) {
	tracked, err := h.revisions.Tracked(c.Request.Context(), ownerID, id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"schedule": toTrackedDTO(tracked)})
}
