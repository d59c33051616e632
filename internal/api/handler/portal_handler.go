package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// PortalFlows is what the dashboard, profile and senior views need.
type PortalFlows interface {
	Dashboard(ctx context.Context, ws *service.Workspace) (service.Dashboard, error)
	Seniors(ctx context.Context, ws *service.Workspace) ([]domain.MonitoredSenior, error)
	Senior(ctx context.Context, ws *service.Workspace, seniorID int64) (*domain.SeniorDetail, error)
	UpdateProfile(ctx context.Context, ws *service.Workspace, patch domain.ProfilePatch) (domain.Session, error)
	UpdateProfilePicture(ctx context.Context, ws *service.Workspace, pictureURL string) (domain.Session, error)
}

// PortalHandler serves the dashboard, profile and senior views.
type PortalHandler struct {
	flows PortalFlows
}

func NewPortalHandler(flows PortalFlows) *PortalHandler {
	return &PortalHandler{flows: flows}
}

// Dashboard handles GET /dashboard.
//
// @Summary      Dashboard
// @Description  Reminders, the four most recent memories and the live count of monitored seniors.
// @Tags         portal
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Success      202  {object}  map[string]string  "Session still loading"
// @Failure      502  {object}  map[string]string
// @Router       /dashboard [get]
func (h *PortalHandler) Dashboard(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	d, err := h.flows.Dashboard(c.Request().Context(), ws)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateProfile handles PATCH /profile.
//
// @Summary      Update the local profile
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  sessionResponse
// @Router       /profile [patch]
func (h *PortalHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	s, err := h.flows.UpdateProfile(c.Request().Context(), ws, domain.ProfilePatch{
		Fullname: req.Fullname,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{State: service.GuardAuthenticated.String(), User: s.User})
}

// UpdatePicture handles PATCH /profile/picture.
//
// @Summary      Set the profile picture
// @Description  The picture must already be uploaded; only its URL is stored.
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        body  body      updatePictureRequest  true  "Picture URL"
// @Success      200   {object}  sessionResponse
// @Failure      502   {object}  map[string]string
// @Router       /profile/picture [patch]
func (h *PortalHandler) UpdatePicture(c echo.Context) error {
	var req updatePictureRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	s, err := h.flows.UpdateProfilePicture(c.Request().Context(), ws, req.ProfilePicture)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{State: service.GuardAuthenticated.String(), User: s.User})
}

// Seniors handles GET /seniors.
//
// @Summary      Monitored seniors
// @Tags         seniors
// @Produce      json
// @Success      200  {array}   domain.MonitoredSenior
// @Router       /seniors [get]
func (h *PortalHandler) Seniors(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	seniors, err := h.flows.Seniors(c.Request().Context(), ws)
	if err != nil {
		return err
	}
	if seniors == nil {
		seniors = []domain.MonitoredSenior{}
	}
	return c.JSON(http.StatusOK, seniors)
}

// Senior handles GET /seniors/:id.
//
// @Summary      Senior profile
// @Tags         seniors
// @Produce      json
// @Param        id   path      int  true  "Senior user id"
// @Success      200  {object}  domain.SeniorDetail
// @Failure      404  {object}  map[string]string
// @Router       /seniors/{id} [get]
func (h *PortalHandler) Senior(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	detail, err := h.flows.Senior(c.Request().Context(), ws, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}
