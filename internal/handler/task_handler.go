package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/query"
	"taskboard/internal/service"
)

// taskDefaultLimit caps unbounded task listings; the tasks collection grows
// much faster than users.
const taskDefaultLimit = 100

// TaskHandler bundles HTTP handlers for the tasks resource.
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler creates a handler layer.
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type taskRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Deadline     json.RawMessage `json:"deadline" validate:"required"`
	Completed    json.RawMessage `json:"completed"`
	AssignedUser *string         `json:"assignedUser"`
}

func (r *taskRequest) toInput() *service.TaskInput {
	return &service.TaskInput{
		Name:         r.Name,
		Description:  r.Description,
		Deadline:     r.Deadline,
		Completed:    r.Completed,
		AssignedUser: r.AssignedUser,
	}
}

// ListTasks godoc
// @Summary List tasks
// @Description List tasks filtered by where/sort/select/skip/limit, or return a count when count=true. Limit defaults to 100.
// @Tags tasks
// @Produce json
// @Param where query string false "JSON filter document"
// @Param sort query string false "JSON sort document"
// @Param select query string false "JSON projection document"
// @Param skip query int false "Records to skip"
// @Param limit query int false "Maximum records returned"
// @Param count query bool false "Return a count instead of records"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	opts, err := query.Parse(c.QueryParams(), taskDefaultLimit)
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
	tasks, err := h.svc.List(ctx, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Message: "OK", Data: tasks})
}

// GetTask godoc
// @Summary Get task by id
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	task, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Message: "OK", Data: task})
}

// CreateTask godoc
// @Summary Create task
// @Description Create a task; deadline accepts epoch milliseconds or an ISO date, assignedUser accepts a user id or empty for unassigned.
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body taskRequest true "Task payload"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	task, err := h.svc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, Envelope{Message: "Created", Data: task})
}

// UpdateTask godoc
// @Summary Replace task by id
// @Description Replace a task; changing assignedUser reconciles both users' pendingTasks lists.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body taskRequest true "Task payload"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Message: err.Error(), Data: nil})
	}
	task, err := h.svc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Message: "OK", Data: task})
}

// DeleteTask godoc
// @Summary Delete task by id
// @Description Delete a task and pull its id from the former assignee's pendingTasks.
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
