package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vacanza-be/internal/middleware"
	"vacanza-be/internal/models"
	"vacanza-be/internal/service"
)

// ActivityHandler serves /api/groups/:groupId/activities.
type ActivityHandler struct {
	svc *service.ActivityService
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// Create handles POST /api/groups/:groupId/activities. The body is the
// activity itself, carrying either an event or a trip detail block.
func (h *ActivityHandler) Create(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	var activity models.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), groupID, &activity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/groups/:groupId/activities.
func (h *ActivityHandler) List(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activities, err := h.svc.List(c.Request.Context(), middleware.GetUserID(c), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	c.JSON(http.StatusOK, activities)
}

// Get handles GET /api/groups/:groupId/activities/:activityId.
func (h *ActivityHandler) Get(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	activity, err := h.svc.Get(c.Request.Context(), middleware.GetUserID(c), groupID, activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// Update handles PUT /api/groups/:groupId/activities/:activityId.
func (h *ActivityHandler) Update(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	var activity models.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), groupID, activityID, &activity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ToggleCompletion handles PATCH /api/groups/:groupId/activities/:activityId/toggle-completion.
func (h *ActivityHandler) ToggleCompletion(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	activity, err := h.svc.ToggleCompletion(c.Request.Context(), middleware.GetUserID(c), groupID, activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

type reorderRequest struct {
	ActivityIDs []int64 `json:"activityIds" binding:"required"`
}

// Reorder handles PUT /api/groups/:groupId/activities/reorder. The body
// lists every activity id in the desired display order.
func (h *ActivityHandler) Reorder(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activities, err := h.svc.Reorder(c.Request.Context(), middleware.GetUserID(c), groupID, req.ActivityIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// Delete handles DELETE /api/groups/:groupId/activities/:activityId.
func (h *ActivityHandler) Delete(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetUserID(c), groupID, activityID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListParticipants handles GET /api/groups/:groupId/activities/:activityId/participants.
func (h *ActivityHandler) ListParticipants(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	activity, err := h.svc.Get(c.Request.Context(), middleware.GetUserID(c), groupID, activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	participants := activity.Participants
	if participants == nil {
		participants = []models.ActivityParticipant{}
	}
	c.JSON(http.StatusOK, participants)
}

type participantRequest struct {
	GroupMemberID int64                    `json:"groupMemberId" binding:"required"`
	Status        models.ParticipantStatus `json:"status"`
	Notes         string                   `json:"notes"`
}

// AddParticipant handles POST /api/groups/:groupId/activities/:activityId/participants.
func (h *ActivityHandler) AddParticipant(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.AddParticipant(c.Request.Context(), middleware.GetUserID(c),
		groupID, activityID, req.GroupMemberID, req.Status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type participantStatusRequest struct {
	Status models.ParticipantStatus `json:"status" binding:"required"`
	Notes  string                   `json:"notes"`
}

// SetParticipantStatus handles PUT /api/groups/:groupId/activities/:activityId/participants/:participantId/status.
func (h *ActivityHandler) SetParticipantStatus(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	participantID, ok := pathID(c, "participantId")
	if !ok {
		return
	}
	var req participantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.SetParticipantStatus(c.Request.Context(), middleware.GetUserID(c),
		groupID, activityID, participantID, req.Status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveParticipant handles DELETE /api/groups/:groupId/activities/:activityId/participants/:participantId.
func (h *ActivityHandler) RemoveParticipant(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	participantID, ok := pathID(c, "participantId")
	if !ok {
		return
	}
	err := h.svc.RemoveParticipant(c.Request.Context(), middleware.GetUserID(c),
		groupID, activityID, participantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
