package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/api/metrics"
	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// MemoryFlows is what the memory views need.
type MemoryFlows interface {
	List(ctx context.Context, ws *service.Workspace) ([]domain.Memory, error)
	Create(ctx context.Context, ws *service.Workspace, req service.CreateMemoryRequest) (service.CreateMemoryResult, error)
	Delete(ctx context.Context, ws *service.Workspace, memoryID int64, confirmed bool) error
}

// MemoryHandler serves the memory list and the create-memory flow.
type MemoryHandler struct {
	flows MemoryFlows
}

func NewMemoryHandler(flows MemoryFlows) *MemoryHandler {
	return &MemoryHandler{flows: flows}
}

// List handles GET /memories.
//
// @Summary      Memories
// @Tags         memories
// @Produce      json
// @Success      200  {array}   domain.Memory
// @Router       /memories [get]
func (h *MemoryHandler) List(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	items, err := h.flows.List(c.Request().Context(), ws)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Memory{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /memories.
//
// @Summary      Create a memory
// @Description  Creates the memory in a collaboration, uploads its images and queues narration of its content.
// @Tags         memories
// @Accept       json
// @Produce      json
// @Param        body  body      createMemoryRequest  true  "Memory"
// @Success      201   {object}  createMemoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /memories [post]
func (h *MemoryHandler) Create(c echo.Context) error {
	var req createMemoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}

	res, err := h.flows.Create(c.Request().Context(), ws, service.CreateMemoryRequest{
		CollaborationID: req.CollaborationID,
		Title:           req.Title,
		Content:         req.Content,
		DateOfEvent:     req.DateOfEvent,
		Language:        domain.NarrationLanguage(req.Language),
		Images:          req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createMemoryResponse{
		MemoryID:        res.MemoryID,
		ImagesUploaded:  res.ImagesUploaded,
		NarrationQueued: res.NarrationQueued,
	})
}

// Delete handles DELETE /memories/:id?confirm=true.
//
// @Summary      Delete a memory
// @Tags         memories
// @Param        id       path   int   true  "Memory id"
// @Param        confirm  query  bool  true  "Must be true"
// @Success      204
// @Failure      428  {object}  map[string]string  "Confirmation required"
// @Router       /memories/{id} [delete]
func (h *MemoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	err = h.flows.Delete(c.Request().Context(), ws, id, confirmed(c))
	observeDelete("memory", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func observeDelete(resource string, err error) {
	switch {
	case err == nil:
		metrics.ResourceDeletesTotal.WithLabelValues(resource, "ok").Inc()
	case errors.Is(err, domain.ErrConfirmationRequired):
	default:
		metrics.ResourceDeletesTotal.WithLabelValues(resource, "error").Inc()
	}
}
