package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/api/metrics"
	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// InvitationHandler serves pending invitations, their live stream and the
// accept, decline and request-access actions.
type InvitationHandler struct{}

func NewInvitationHandler() *InvitationHandler {
	return &InvitationHandler{}
}

// List handles GET /invitations.
//
// @Summary      Pending invitations
// @Tags         invitations
// @Produce      json
// @Success      200  {object}  invitationsResponse
// @Failure      502  {object}  map[string]string
// @Router       /invitations [get]
func (h *InvitationHandler) List(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	pending, err := ws.Invitations.Refresh(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invitationsResponse{Invitations: nonNil(pending)})
}

// Stream handles GET /invitations/stream. It emits an "invitations" event on
// every poll until the client disconnects or the session ends.
//
// @Summary      Live pending invitations
// @Description  Server-sent events; one "invitations" event per poll.
// @Tags         invitations
// @Produce      text/event-stream
// @Success      200  {object}  invitationsResponse
// @Router       /invitations/stream [get]
func (h *InvitationHandler) Stream(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	go func() {
		select {
		case <-ws.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	metrics.InvitationStreamsActive.Inc()
	defer metrics.InvitationStreamsActive.Dec()

	ws.Invitations.Run(ctx, func(pending []domain.Invitation) {
		if !ws.Session.Current().Active() {
			_ = writeEvent(res, "session", sessionResponse{State: ws.Guard.State().String()})
			cancel()
			return
		}
		if err := writeEvent(res, "invitations", invitationsResponse{Invitations: nonNil(pending)}); err != nil {
			cancel()
		}
	})
	return nil
}

func writeEvent(res *echo.Response, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

// Accept handles POST /invitations/:id/accept.
//
// @Summary      Accept an invitation
// @Tags         invitations
// @Produce      json
// @Param        id   path      int  true  "Invitation id"
// @Success      200  {object}  invitationsResponse
// @Failure      409  {object}  map[string]string  "Another action is in flight"
// @Failure      502  {object}  map[string]string
// @Router       /invitations/{id}/accept [post]
func (h *InvitationHandler) Accept(c echo.Context) error {
	return h.decide(c, domain.DecisionAccept)
}

// Decline handles POST /invitations/:id/decline?confirm=true.
//
// @Summary      Decline an invitation
// @Tags         invitations
// @Produce      json
// @Param        id       path      int   true  "Invitation id"
// @Param        confirm  query     bool  true  "Must be true"
// @Success      200      {object}  invitationsResponse
// @Failure      409      {object}  map[string]string  "Another action is in flight"
// @Failure      428      {object}  map[string]string  "Confirmation required"
// @Router       /invitations/{id}/decline [post]
func (h *InvitationHandler) Decline(c echo.Context) error {
	return h.decide(c, domain.DecisionDecline)
}

func (h *InvitationHandler) decide(c echo.Context, decision domain.InvitationDecision) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if decision == domain.DecisionAccept {
		err = ws.Invitations.Accept(ctx, id)
	} else {
		err = ws.Invitations.Decline(ctx, id, confirmed(c))
	}
	if !errors.Is(err, domain.ErrConfirmationRequired) {
		metrics.InvitationDecisionsTotal.WithLabelValues(string(decision), decisionResult(err)).Inc()
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invitationsResponse{Invitations: nonNil(ws.Invitations.Pending())})
}

func decisionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrActionInFlight):
		return "in_flight"
	default:
		return "error"
	}
}

// RequestAccess handles POST /seniors/connect.
//
// @Summary      Ask a senior to join their collaboration
// @Tags         seniors
// @Accept       json
// @Produce      json
// @Param        body  body      connectSeniorRequest  true  "Senior email"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /seniors/connect [post]
func (h *InvitationHandler) RequestAccess(c echo.Context) error {
	var req connectSeniorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	if err := ws.Invitations.RequestAccess(c.Request().Context(), req.SeniorEmail); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "Request sent. The senior will be notified."})
}

func nonNil(in []domain.Invitation) []domain.Invitation {
	if in == nil {
		return []domain.Invitation{}
	}
	return in
}
