package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/query"
	"taskboard/internal/service"
)

// UserHandler bundles HTTP handlers for the users resource.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type userRequest struct {
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required"`
	PendingTasks *[]string `json:"pendingTasks"`
}

func (r *userRequest) toInput() *service.UserInput {
	in := &service.UserInput{Name: r.Name, Email: r.Email}
	if r.PendingTasks != nil {
		in.PendingTasks = *r.PendingTasks
	}
	return in
}

// ListUsers godoc
// @Summary List users
// @Description List users filtered by where/sort/select/skip/limit, or return a count when count=true.
// @Tags users
// @Produce json
// @Param where query string false "JSON filter document"
// @Param sort query string false "JSON sort document"
// @Param select query string false "JSON projection document"
// @Param skip query int false "Records to skip"
// @Param limit query int false "Maximum records returned"
// @Param count query bool false "Return a count instead of records"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	opts, err := query.Parse(c.QueryParams(), 0)
	if err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()
	if opts.Count {
		n, err := h.svc.Count(ctx, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, Envelope{Message: "OK", Data: CountPayload{Count: n}})
	}
	users, err := h.svc.List(ctx, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Message: "OK", Data: users})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Message: "OK", Data: user})
}

// CreateUser godoc
// @Summary Create user
// @Description Create a user; a supplied pendingTasks list claims each listed task for the new user.
// @Tags users
// @Accept json
// @Produce json
// @Param user body userRequest true "User payload"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	user, err := h.svc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, Envelope{Message: "Created", Data: user})
}

// UpdateUser godoc
// @Summary Replace user by id
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body userRequest true "User payload"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	user, err := h.svc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Message: "OK", Data: user})
}

// DeleteUser godoc
// @Summary Delete user by id
// @Description Delete a user after unassigning every task that references it.
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
