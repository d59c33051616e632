package domain

import "time"

// Invitation is a pending request to join a collaboration. The portal only ever
// holds pending invitations; accepted or declined ones leave the set.
type Invitation struct {
	ID                int64     `json:"id"`
	CollaborationName string    `json:"collaboration_name"`
	InviterName       string    `json:"inviter_name"`
	Role              string    `json:"role"`
	CreatedAt         time.Time `json:"created_at"`
}

// InvitationDecision is the action taken on an invitation.
type InvitationDecision string

const (
	DecisionAccept  InvitationDecision = "accept"
	DecisionDecline InvitationDecision = "decline"
)
