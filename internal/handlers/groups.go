package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vacanza-be/internal/middleware"
	"vacanza-be/internal/models"
	"vacanza-be/internal/service"
)

// GroupHandler serves /api/groups.
type GroupHandler struct {
	svc *service.GroupService
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type groupRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	VacationStartDate string `json:"vacationStartDate"`
	VacationEndDate   string `json:"vacationEndDate"`
	CoverImageURL     string `json:"coverImageUrl"`
}

func (r *groupRequest) toModel() *models.Group {
	return &models.Group{
		Name:              r.Name,
		Description:       r.Description,
		VacationStartDate: r.VacationStartDate,
		VacationEndDate:   r.VacationEndDate,
		CoverImageURL:     r.CoverImageURL,
	}
}

// Create handles POST /api/groups.
func (h *GroupHandler) Create(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	group, err := h.svc.CreateGroup(c.Request.Context(), middleware.GetUserID(c), req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// List handles GET /api/groups.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.svc.ListGroups(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	c.JSON(http.StatusOK, groups)
}

// Get handles GET /api/groups/:groupId.
func (h *GroupHandler) Get(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	group, err := h.svc.GetGroup(c.Request.Context(), middleware.GetUserID(c), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// Update handles PUT /api/groups/:groupId.
func (h *GroupHandler) Update(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.svc.UpdateGroup(c.Request.Context(), middleware.GetUserID(c), groupID, req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// Delete handles DELETE /api/groups/:groupId.
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	if err := h.svc.DeleteGroup(c.Request.Context(), middleware.GetUserID(c), groupID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /api/groups/:groupId/members.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	members, err := h.svc.ListMembers(c.Request.Context(), middleware.GetUserID(c), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	if members == nil {
		members = []*models.GroupMember{}
	}
	c.JSON(http.StatusOK, members)
}

type addMemberRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

// AddMember handles POST /api/groups/:groupId/members.
func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), middleware.GetUserID(c), groupID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

type memberRoleRequest struct {
	Role models.GroupRole `json:"role" binding:"required"`
}

// SetMemberRole handles PUT /api/groups/:groupId/members/:memberId/role.
func (h *GroupHandler) SetMemberRole(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	var req memberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.svc.SetMemberRole(c.Request.Context(), middleware.GetUserID(c), groupID, memberID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// RemoveMember handles DELETE /api/groups/:groupId/members/:memberId.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	if err := h.svc.RemoveMember(c.Request.Context(), middleware.GetUserID(c), groupID, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave handles POST /api/groups/:groupId/leave.
func (h *GroupHandler) Leave(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), middleware.GetUserID(c), groupID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type joinRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// Join handles POST /api/groups/join.
func (h *GroupHandler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.svc.JoinByInviteCode(c.Request.Context(), middleware.GetUserID(c), req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}
