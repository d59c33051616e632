// Package token reads the claims of backend-issued credentials without
// verifying them. Signature checks belong to the backend.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

var errNoExpiry = errors.New("credential has no expiry claim")

type claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTDecoder implements ports.TokenDecoder for JWT credentials.
type JWTDecoder struct {
	parser *jwt.Parser
}

// NewJWTDecoder returns a decoder.
func NewJWTDecoder() *JWTDecoder {
	return &JWTDecoder{parser: jwt.NewParser()}
}

// Decode returns the credential's claims. A credential without an expiry is
// rejected, since its staleness cannot be judged.
func (d *JWTDecoder) Decode(raw string) (domain.TokenClaims, error) {
	var c claims
	if _, _, err := d.parser.ParseUnverified(raw, &c); err != nil {
		return domain.TokenClaims{}, fmt.Errorf("decode credential: %w", err)
	}
	if c.ExpiresAt == nil {
		return domain.TokenClaims{}, errNoExpiry
	}
	return domain.TokenClaims{
		UserID:    c.UserID,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
