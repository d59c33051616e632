package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// ReminderFlows is what the reminder views need.
type ReminderFlows interface {
	List(ctx context.Context, ws *service.Workspace) ([]domain.Reminder, error)
	Create(ctx context.Context, ws *service.Workspace, req service.ReminderRequest) error
	Update(ctx context.Context, ws *service.Workspace, reminderID int64, req service.ReminderRequest) error
	Delete(ctx context.Context, ws *service.Workspace, reminderID int64, confirmed bool) error
}

// ReminderHandler serves the reminder list, create, edit and delete actions.
type ReminderHandler struct {
	flows ReminderFlows
}

func NewReminderHandler(flows ReminderFlows) *ReminderHandler {
	return &ReminderHandler{flows: flows}
}

// List handles GET /reminders.
//
// @Summary      Reminders
// @Tags         reminders
// @Produce      json
// @Success      200  {array}   domain.Reminder
// @Router       /reminders [get]
func (h *ReminderHandler) List(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	items, err := h.flows.List(c.Request().Context(), ws)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Reminder{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /reminders.
//
// @Summary      Create a reminder
// @Description  Date and time are the user's local wall clock; the backend receives UTC.
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Param        body  body      reminderRequest  true  "Reminder"
// @Success      201   {array}   domain.Reminder
// @Failure      400   {object}  map[string]string
// @Router       /reminders [post]
func (h *ReminderHandler) Create(c echo.Context) error {
	var req reminderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.CollaborationID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "collaboration_id is required")
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	if err := h.flows.Create(c.Request().Context(), ws, req.toService()); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ws.Reminders.Items())
}

// Update handles PUT /reminders/:id.
//
// @Summary      Edit a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Reminder id"
// @Param        body  body      reminderRequest  true  "Reminder"
// @Success      200   {array}   domain.Reminder
// @Failure      400   {object}  map[string]string
// @Router       /reminders/{id} [put]
func (h *ReminderHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reminderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	if err := h.flows.Update(c.Request().Context(), ws, id, req.toService()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Reminders.Items())
}

// Delete handles DELETE /reminders/:id?confirm=true.
//
// @Summary      Delete a reminder
// @Tags         reminders
// @Param        id       path   int   true  "Reminder id"
// @Param        confirm  query  bool  true  "Must be true"
// @Success      204
// @Failure      428  {object}  map[string]string  "Confirmation required"
// @Router       /reminders/{id} [delete]
func (h *ReminderHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	err = h.flows.Delete(c.Request().Context(), ws, id, confirmed(c))
	observeDelete("reminder", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
