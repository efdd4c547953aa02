package transport

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/db"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/models"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/service"
)

const internalErrorMsg = "internal server error"

// APIError is rendered as {"msg": Msg} with status Status.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Msg)
}

type errorStatus struct {
	err    error
	status int
	// wrapped keeps the full error chain in the message instead of the sentinel text.
	wrapped bool
}

var errorStatusMap = []errorStatus{
	{err: service.ErrEmailTaken, status: http.StatusUnauthorized},
	{err: service.ErrCharacterNameTaken, status: http.StatusUnauthorized},
	{err: service.ErrPlanetNameTaken, status: http.StatusUnauthorized},
	{err: service.ErrVehicleNameTaken, status: http.StatusUnauthorized},

	{err: service.ErrUserNotFound, status: http.StatusNotFound},
	{err: service.ErrCharacterNotFound, status: http.StatusNotFound},
	{err: service.ErrPlanetNotFound, status: http.StatusNotFound},
	{err: service.ErrVehicleNotFound, status: http.StatusNotFound},
	{err: service.ErrFavouriteNotFound, status: http.StatusNotFound},
	{err: db.ErrNotFound, status: http.StatusNotFound},

	{err: models.ErrUnknownTargetKind, status: http.StatusBadRequest},
	{err: db.ErrConstraintViolation, status: http.StatusBadRequest},

	{err: service.ErrBrokenReference, status: http.StatusInternalServerError, wrapped: true},
}

// toAPIError maps err onto the status table. Unknown errors become an opaque 500.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		return &APIError{Status: he.Code, Msg: msg}
	}

	for _, es := range errorStatusMap {
		if !errors.Is(err, es.err) {
			continue
		}
		msg := es.err.Error()
		if es.wrapped {
			msg = err.Error()
		}
		return &APIError{Status: es.status, Msg: msg}
	}

	return &APIError{Status: http.StatusInternalServerError, Msg: internalErrorMsg}
}

func (s *HTTPServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Errorw("request failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"uri", c.Request().RequestURI,
			"error", err,
		)
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(apiErr.Status)
	} else {
		sendErr = c.JSON(apiErr.Status, MsgResp{Msg: apiErr.Msg})
	}
	if sendErr != nil {
		s.logger.Errorw("send error response", "error", sendErr)
	}
}
