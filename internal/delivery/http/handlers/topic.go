package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/middleware"
	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/response"
	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

type TopicHandler struct {
	topics TopicService
}

func NewTopicHandler(topics TopicService) *TopicHandler {
	return &TopicHandler{topics: topics}
}

type mainTopicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GET /api/topics
func (h *TopicHandler) ListMainTopics(c *gin.Context) {
	topics, err := h.topics.ListMainTopics(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	out := make([]mainTopicDTO, 0, len(topics))
	for _, t := range topics {
		out = append(out, toMainTopicDTO(t))
	}
	response.RespondOK(c, gin.H{"topics": out})
}

// POST /api/topics
// body: { "title": "...", "description": "..." }
func (h *TopicHandler) CreateMainTopic(c *gin.Context) {
	var req mainTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindError(err))
		return
	}

	topic, err := h.topics.CreateMainTopic(c.Request.Context(), middleware.OwnerID(c), req.Title, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"topic": toMainTopicDTO(topic)})
}

// PUT /api/topics/:id
func (h *TopicHandler) UpdateMainTopic(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	var req mainTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindError(err))
		return
	}

	topic, err := h.topics.UpdateMainTopic(c.Request.Context(), middleware.OwnerID(c), id, req.Title, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": toMainTopicDTO(topic)})
}

// DELETE /api/topics/:id
func (h *TopicHandler) DeleteMainTopic(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	if err := h.topics.DeleteMainTopic(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/topics/hierarchy
func (h *TopicHandler) Hierarchy(c *gin.Context) {
	nodes, err := h.topics.Hierarchy(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	out := make([]topicNodeDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, topicNodeDTO{
			mainTopicDTO: toMainTopicDTO(n.Topic),
			SubTopics:    toSubTopicDTOs(n.SubTopics),
		})
	}
	response.RespondOK(c, gin.H{"topics": out})
}

// GET /api/topics/:id/subtopics
func (h *TopicHandler) ListSubTopicsByMainTopic(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	subs, err := h.topics.ListSubTopicsByMainTopic(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sub_topics": toSubTopicDTOs(subs)})
}

type subTopicRequest struct {
	MainTopicID uuid.UUID `json:"main_topic_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	StudyDate   int64     `json:"study_date"`
}

func (r subTopicRequest) input() (entities.SubTopicInput, error) {
	d, err := entities.ParseDifficulty(r.Difficulty)
	if err != nil {
		return entities.SubTopicInput{}, err
	}

	in := entities.SubTopicInput{
		Title:       r.Title,
		Description: r.Description,
		Difficulty:  d,
	}
	if r.StudyDate != 0 {
		in.StudyDate = time.Unix(0, r.StudyDate).UTC()
	}
	return in, nil
}

// GET /api/subtopics
func (h *TopicHandler) ListSubTopics(c *gin.Context) {
	subs, err := h.topics.ListSubTopics(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sub_topics": toSubTopicDTOs(subs)})
}

// POST /api/subtopics
// body: { "main_topic_id": "...", "title": "...", "difficulty": "easy", "study_date": 1704067200000000000 }
func (h *TopicHandler) CreateSubTopic(c *gin.Context) {
	var req subTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	sub, err := h.topics.CreateSubTopic(c.Request.Context(), middleware.OwnerID(c), req.MainTopicID, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"sub_topic": toSubTopicDTO(sub)})
}

// PUT /api/subtopics/:id
func (h *TopicHandler) UpdateSubTopic(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	var req subTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	sub, err := h.topics.UpdateSubTopic(c.Request.Context(), middleware.OwnerID(c), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sub_topic": toSubTopicDTO(sub)})
}

// DELETE /api/subtopics/:id
func (h *TopicHandler) DeleteSubTopic(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	if err := h.topics.DeleteSubTopic(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/subtopics/:id/completed
func (h *TopicHandler) MarkCompleted(c *gin.Context) {
	h.setCompleted(c, true)
}

// DELETE /api/subtopics/:id/completed
func (h *TopicHandler) MarkPending(c *gin.Context) {
	h.setCompleted(c, false)
}

func (h *TopicHandler) setCompleted(c *gin.Context, completed bool) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	if err := h.topics.SetSubTopicCompleted(c.Request.Context(), middleware.OwnerID(c), id, completed); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"completed": completed})
}
