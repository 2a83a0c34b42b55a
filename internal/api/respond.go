package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/neuroweave/internal/errors"
	"github.com/ZanzyTHEbar/neuroweave/internal/mlclient"
	"github.com/ZanzyTHEbar/neuroweave/internal/resilience"
	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
	"github.com/ZanzyTHEbar/neuroweave/internal/types"
	"github.com/ZanzyTHEbar/neuroweave/internal/video"
)

const (
	msgNoFrames = "no frames classified"
	// matches the model server circuit breaker recovery timeout
	retryAfterSeconds = "30"
)

// respondError renders err. Domain sentinels get their own status; anything
// else goes through errors.ToAppError.
func respondError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case stderrors.Is(err, screening.ErrNoFrames):
		errors.LogError(c, errors.NewUndeterminableError(msgNoFrames, err))
		c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{Error: msgNoFrames})
		return

	case stderrors.Is(err, video.ErrUploadTooLarge), stderrors.As(err, &maxBytesErr):
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "video file too large"})
		return
	}

	var appErr *errors.AppError
	var statusErr *mlclient.StatusError
	switch {
	case stderrors.Is(err, screening.ErrInvalidInput):
		appErr = errors.NewValidationError(err.Error())
	case stderrors.Is(err, mlclient.ErrUnavailable),
		stderrors.Is(err, resilience.ErrCircuitOpen),
		stderrors.As(err, &statusErr):
		appErr = errors.NewExternalAPIError(mlclient.ServiceName, err)
	default:
		appErr = errors.ToAppError(err)
	}

	errors.LogError(c, appErr)
	if errors.IsTransient(appErr) {
		c.Header("Retry-After", retryAfterSeconds)
	}
	c.JSON(appErr.HTTPStatus, appErr)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: msg})
}
