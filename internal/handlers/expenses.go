package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vacanza-be/internal/middleware"
	"vacanza-be/internal/models"
	"vacanza-be/internal/service"
)

// ExpenseHandler serves expenses and the group settlement view.
type ExpenseHandler struct {
	svc *service.ExpenseService
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// Create handles POST /api/groups/:groupId/activities/:activityId/expenses.
// When the body names an expense to replace, the old one is atomically
// swapped for the new one.
func (h *ExpenseHandler) Create(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	var input service.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), groupID, activityID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// ListByActivity handles GET /api/groups/:groupId/activities/:activityId/expenses.
func (h *ExpenseHandler) ListByActivity(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	expenses, err := h.svc.ListByActivity(c.Request.Context(), middleware.GetUserID(c), groupID, activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

// ListByGroup handles GET /api/groups/:groupId/expenses.
func (h *ExpenseHandler) ListByGroup(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	expenses, err := h.svc.ListByGroup(c.Request.Context(), middleware.GetUserID(c), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

// Delete handles DELETE /api/groups/:groupId/expenses/:expenseId.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	expenseID, ok := pathID(c, "expenseId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetUserID(c), groupID, expenseID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Settlement handles GET /api/groups/:groupId/expenses/settlement.
// An optional ?currency= query scopes the computation; expenses in other
// currencies are excluded, never converted.
func (h *ExpenseHandler) Settlement(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	settlement, err := h.svc.Settlement(c.Request.Context(), middleware.GetUserID(c), groupID, c.Query("currency"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}
