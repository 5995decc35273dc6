// Package handlers implements the REST API surface on top of the
// service layer: JSON binding, path parsing and error-to-status mapping.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vacanza-be/internal/auth"
	"vacanza-be/internal/ledger"
	"vacanza-be/internal/models"
	"vacanza-be/internal/money"
	"vacanza-be/internal/service"
	"vacanza-be/internal/storage"
)

// pathID parses a numeric path parameter, responding 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP statuses. Anything not
// recognized is a 500 with a generic body; the real error goes to the
// request log, not the client.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, ledger.ErrUnbalanced),
		errors.Is(err, ledger.ErrNoPayers),
		errors.Is(err, ledger.ErrNoOwers),
		errors.Is(err, ledger.ErrUnknownMember),
		errors.Is(err, ledger.ErrNegativeShare),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidActivityType),
		errors.Is(err, models.ErrDetailMismatch),
		errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrMissingStartDate),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidInviteCode),
		errors.Is(err, service.ErrInvalidRole):
		status = http.StatusBadRequest
		message = err.Error()

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		status = http.StatusUnauthorized
		message = err.Error()

	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		message = "forbidden"

	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"

	case errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrLastAdmin),
		errors.Is(err, service.ErrMemberHasExpenses):
		status = http.StatusConflict
		message = err.Error()

	case errors.Is(err, ledger.ErrBalancesDoNotReconcile):
		// Stored ledger data is inconsistent. Not the client's fault.
		status = http.StatusInternalServerError
		message = "unable to compute settlement"
	}

	c.Error(err)
	c.JSON(status, gin.H{"error": message})
}
