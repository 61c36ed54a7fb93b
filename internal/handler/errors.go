package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/furnet-labs/furnet/internal/apperrors"
)

// ErrorResponse is the body returned for every failed request. Detail is
// shown verbatim to users.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

var codeToStatus = map[string]int{
	apperrors.CodeBadParameter:     http.StatusBadRequest,
	apperrors.CodeSelfLinkRejected: http.StatusBadRequest,
	apperrors.CodeEntityNotFound:   http.StatusNotFound,
	apperrors.CodeDuplicateFriend:  http.StatusConflict,
	apperrors.CodePeerUnreachable:  http.StatusBadGateway,
	apperrors.CodePeerMalformed:    http.StatusBadGateway,
	apperrors.CodeInternal:         http.StatusInternalServerError,
}

// RegisterErrorHandler installs the coded-error to status-code mapping on
// the echo instance.
func RegisterErrorHandler(e *echo.Echo, logger *slog.Logger) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := ErrorResponse{Detail: "an internal error has occurred"}

		if coded := apperrors.AsError(err); coded != nil {
			if s, ok := codeToStatus[coded.Code]; ok {
				status = s
			}
			body.Detail = coded.Detail
			body.Code = coded.Code
		} else if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				body.Detail = msg
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()))
		} else {
			logger.Warn("Request rejected",
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.String("error", err.Error()))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
