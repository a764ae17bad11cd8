package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/govctl/internal/domain"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []*domain.FieldError `json:"fields,omitempty"`
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

// writeError maps a domain error to its HTTP status
func writeError(c *gin.Context, err error) {
	var batch *domain.BatchError
	if errors.As(err, &batch) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "INVALID_ACTIONS",
			Message: err.Error(),
			Fields:  batch.Errors,
		})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case domain.KindPrecondition:
		writeErrorCode(c, http.StatusConflict, "PRECONDITION_FAILED", err.Error())
	case domain.KindNetwork:
		writeErrorCode(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", err.Error())
	default:
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
