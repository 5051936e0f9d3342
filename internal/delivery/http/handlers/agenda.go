package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/middleware"
	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/response"
)

// AgendaHandler serves the date-range queries. Every "date" parameter is optional
// and defaults to the current time.
type AgendaHandler struct {
	agenda AgendaService
}

func NewAgendaHandler(agenda AgendaService) *AgendaHandler {
	return &AgendaHandler{agenda: agenda}
}

// GET /api/agenda/due?date=
func (h *AgendaHandler) DueOn(c *gin.Context) {
	date, err := queryTime(c, "date", h.agenda.Now())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	items, err := h.agenda.DueOn(c.Request.Context(), middleware.OwnerID(c), date)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"due": toTrackedDTOs(items)})
}

// GET /api/agenda/overdue?date=
func (h *AgendaHandler) OverdueAsOf(c *gin.Context) {
	date, err := queryTime(c, "date", h.agenda.Now())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	items, err := h.agenda.OverdueAsOf(c.Request.Context(), middleware.OwnerID(c), date)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"overdue": toTrackedDTOs(items)})
}

// GET /api/agenda/today?date=
func (h *AgendaHandler) Today(c *gin.Context) {
	date, err := queryTime(c, "date", h.agenda.Now())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	summary, err := h.agenda.Today(c.Request.Context(), middleware.OwnerID(c), date)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"date_key": summary.Date.String(),
		"due":      toTrackedDTOs(summary.Due),
		"overdue":  toTrackedDTOs(summary.Overdue),
	})
}

// GET /api/agenda/planned?start=&end=
// end defaults to start.
func (h *AgendaHandler) Planned(c *gin.Context) {
	start, err := queryTime(c, "start", h.agenda.Now())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	end, err := queryTime(c, "end", start)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	items, err := h.agenda.Planned(c.Request.Context(), middleware.OwnerID(c), start, end)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": toPlannedItemDTOs(items)})
}

// GET /api/agenda/calendar?year=&month=
func (h *AgendaHandler) Calendar(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.OwnerID(c)

	loc, err := h.agenda.Location(ctx, owner)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	now := h.agenda.Now().In(loc)
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	days, err := h.agenda.Calendar(ctx, owner, year, time.Month(month))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	out := make([]calendarDayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, calendarDayDTO{
			DateKey: d.Key.String(),
			Items:   toPlannedItemDTOs(d.Items),
			Missed:  d.Missed,
		})
	}
	response.RespondOK(c, gin.H{"year": year, "month": month, "days": out})
}

// GET /api/agenda/missed?date=
func (h *AgendaHandler) MissedDates(c *gin.Context) {
	date, err := queryTime(c, "date", h.agenda.Now())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	keys, err := h.agenda.MissedDates(c.Request.Context(), middleware.OwnerID(c), date)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	response.RespondOK(c, gin.H{"missed": out})
}
