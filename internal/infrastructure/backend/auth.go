package backend

import (
	"context"
	"net/http"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string              `json:"token"`
	User  *domain.UserProfile `json:"user"`
}

type signupRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type resetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.UserProfile, error) {
	var out loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", nil, err
	}
	return out.Token, out.User, nil
}

func (c *Client) Signup(ctx context.Context, in ports.SignupInput) error {
	return c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", "", signupRequest{
		Fullname: in.Fullname,
		Email:    in.Email,
		Password: in.Password,
		Role:     string(in.Role),
	}, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageResponse
	if err := c.do(ctx, "forgot_password", http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return c.do(ctx, "reset_password", http.MethodPost, "/api/auth/reset-password", "",
		resetRequest{Email: email, Code: code, NewPassword: newPassword}, nil)
}
