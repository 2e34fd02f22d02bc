package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskboard/internal/apperrors"
)

// Envelope is the uniform response body: a human-readable message plus the
// payload, or null on errors.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// CountPayload is the data payload for count=true reads.
type CountPayload struct {
	Count int64 `json:"count"`
}

func respondError(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	return c.JSON(he.StatusCode, Envelope{Message: he.Message, Data: nil})
}

// pathID parses the :id path parameter, distinguishing a malformed id (a
// client input error) from a well-formed id with no matching record.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidID
	}
	return id, nil
}
