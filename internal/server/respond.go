package server

import (
	"errors"
	"net/http"

	"github.com/MyelinBots/vitals-go/internal/services/auth"
	"github.com/MyelinBots/vitals-go/internal/services/calculator"
	"github.com/MyelinBots/vitals-go/internal/services/context_manager"
	"github.com/MyelinBots/vitals-go/internal/services/food"
	"github.com/MyelinBots/vitals-go/internal/services/ledger"
	"github.com/MyelinBots/vitals-go/internal/services/nutrition"
	"github.com/MyelinBots/vitals-go/internal/services/profile"
	"github.com/gin-gonic/gin"
)

const (
	msgInternal   = "something went wrong"
	msgBadRequest = "invalid request body"
)

var badRequest = []error{
	auth.ErrMissingField,
	auth.ErrInvalidDate,
	auth.ErrInvalidChoice,
	auth.ErrFieldTooLong,
	auth.ErrPasswordTooLong,
	ledger.ErrPortionTooLong,
	profile.ErrGoalTooLong,
	calculator.ErrInvalidMeasurement,
	food.ErrEmptyQuery,
	profile.ErrInvalidActivity,
}

// statusFor maps a service error onto the status shown to the client.
// Unknown errors are internal and their text is not exposed.
func statusFor(err error) (int, string) {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrDuplicateEmail):
		return http.StatusConflict, auth.ErrDuplicateEmail.Error()
	case errors.Is(err, ledger.ErrFoodNotFound):
		return http.StatusNotFound, ledger.ErrFoodNotFound.Error()
	case errors.Is(err, profile.ErrUserNotFound):
		return http.StatusNotFound, profile.ErrUserNotFound.Error()
	case errors.Is(err, nutrition.ErrNotFound):
		return http.StatusNotFound, nutrition.ErrNotFound.Error()
	case errors.Is(err, nutrition.ErrLookupFailed):
		return http.StatusBadGateway, nutrition.ErrLookupFailed.Error()
	}
	return http.StatusInternalServerError, msgInternal
}

func (s *Server) respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", context_manager.GetRequestID(c.Request.Context()),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func respondBadRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
}
