package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"repairshop/internal/apperror"
	"repairshop/pkg/response"
)

// respondError writes err using the status of its apperror kind. Anything
// else is logged and reported as an internal error without details.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		c.JSON(status, response.ErrorWithCode(status, string(appErr.Kind), appErr.Error()))
		return
	}
	slog.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Any("error", err),
	)
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "internal server error"))
}

// respondBindError reports a payload that failed to decode or validate.
func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		err = errors.New(strings.Join(fields, "; "))
	}
	c.JSON(http.StatusBadRequest, response.ErrorWithCode(http.StatusBadRequest,
		string(apperror.KindValidation), "Invalid request payload: "+err.Error()))
}
