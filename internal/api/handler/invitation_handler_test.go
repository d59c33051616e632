package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

func inviteFixture(t *testing.T) (*InvitationHandler, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{pending: []domain.Invitation{
		{ID: 1, CollaborationName: "Lola Cruz"},
		{ID: 2, CollaborationName: "Lolo Reyes"},
	}}
	return NewInvitationHandler(), backend
}

func TestDecline_WithoutConfirmation(t *testing.T) {
	h, backend := inviteFixture(t)
	ws := loggedIn(t, newWorkspace(t, backend, 0))
	if _, err := ws.Invitations.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	c, _ := newContext(http.MethodPost, "/invitations/1/decline", nil, ws)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Decline(c); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if declined, _ := backend.calls(); len(declined) != 0 {
		t.Fatalf("no request may be issued, got %v", declined)
	}
	if len(ws.Invitations.Pending()) != 2 {
		t.Fatalf("pending set must be unchanged")
	}
}

func TestDecline_Confirmed(t *testing.T) {
	h, backend := inviteFixture(t)
	ws := loggedIn(t, newWorkspace(t, backend, 0))
	if _, err := ws.Invitations.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	c, rec := newContext(http.MethodPost, "/invitations/1/decline?confirm=true", nil, ws)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Decline(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if declined, _ := backend.calls(); len(declined) != 1 || declined[0] != 1 {
		t.Fatalf("expected one decline of 1, got %v", declined)
	}

	var resp invitationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Invitations) != 1 || resp.Invitations[0].ID != 2 {
		t.Fatalf("expected only invitation 2, got %+v", resp.Invitations)
	}
}

func TestStream_EndsWhenSessionEnds(t *testing.T) {
	h, backend := inviteFixture(t)
	ws := loggedIn(t, newWorkspace(t, backend, 5*time.Millisecond))
	backend.onPoll = func(n int) {
		if n == 2 {
			_ = ws.Session.Logout(context.Background())
		}
	}

	c, rec := newContext(http.MethodGet, "/invitations/stream", nil, ws)
	done := make(chan error, 1)
	go func() { done <- h.Stream(c) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after logout")
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: invitations\n") || !strings.Contains(body, "Lola Cruz") {
		t.Fatalf("expected an invitations event, got %q", body)
	}
	if !strings.HasSuffix(body, "event: session\ndata: {\"state\":\"unauthenticated\"}\n\n") {
		t.Fatalf("expected a closing session event, got %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestRequestAccess_RejectsInvalidEmail(t *testing.T) {
	h, backend := inviteFixture(t)
	ws := loggedIn(t, newWorkspace(t, backend, 0))

	c, _ := newContext(http.MethodPost, "/seniors/connect", strings.NewReader(`{"senior_email":"nope"}`), ws)
	if err := h.RequestAccess(c); err == nil {
		t.Fatalf("expected validation error")
	}
}
