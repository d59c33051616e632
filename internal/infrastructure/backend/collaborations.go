package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

func (c *Client) ListSeniors(ctx context.Context, token string) ([]domain.MonitoredSenior, error) {
	var out []domain.MonitoredSenior
	if err := c.do(ctx, "list_seniors", http.MethodGet, "/api/collaborations/seniors", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSenior(ctx context.Context, token string, seniorID int64) (*domain.SeniorDetail, error) {
	var out domain.SeniorDetail
	path := fmt.Sprintf("/api/collaborations/seniors/%d", seniorID)
	if err := c.do(ctx, "get_senior", http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RequestAccess(ctx context.Context, token, seniorEmail string) error {
	return c.do(ctx, "request_access", http.MethodPost, "/api/collaborations/request-access", token,
		map[string]string{"senior_email": seniorEmail}, nil)
}

func (c *Client) PendingInvitations(ctx context.Context, token string) ([]domain.Invitation, error) {
	var out []domain.Invitation
	if err := c.do(ctx, "pending_invitations", http.MethodGet, "/api/collaborations/invites/pending", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AcceptInvitation(ctx context.Context, token string, inviteID int64) error {
	path := fmt.Sprintf("/api/collaborations/invites/%d/accept", inviteID)
	return c.do(ctx, "accept_invitation", http.MethodPost, path, token, struct{}{}, nil)
}

func (c *Client) DeclineInvitation(ctx context.Context, token string, inviteID int64) error {
	path := fmt.Sprintf("/api/collaborations/invites/%d/decline", inviteID)
	return c.do(ctx, "decline_invitation", http.MethodPost, path, token, struct{}{}, nil)
}

func (c *Client) UpdateProfilePicture(ctx context.Context, token string, userID int64, pictureURL string) error {
	path := fmt.Sprintf("/api/user/%d/profile-picture", userID)
	return c.do(ctx, "update_profile_picture", http.MethodPatch, path, token,
		map[string]string{"profile_picture": pictureURL}, nil)
}
