package client

import (
	"context"
	"net/http"

	"github.com/jpelletier/card-binder/internal/models"
)

// Signup creates an account and starts a session. The security question
// is optional; pass empty strings to skip it.
func (c *Client) Signup(ctx context.Context, email, password, securityQuestion, securityAnswer string) error {
	return c.post(ctx, "/api/signup", models.SignupRequest{
		Email:            email,
		Password:         password,
		SecurityQuestion: securityQuestion,
		SecurityAnswer:   securityAnswer,
	}, nil)
}

// Login starts a session. The cookie lands in the client's jar and rides
// along on every later call.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.post(ctx, "/api/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, nil)
}

// Logout ends the session. The service answers 204.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	return err
}

// MeSummary returns the logged-in user's profile and collection counts.
func (c *Client) MeSummary(ctx context.Context) (models.MeSummary, error) {
	var summary models.MeSummary
	err := c.get(ctx, "/api/me/summary", nil, &summary)
	return summary, err
}

// SetSecurityQuestion sets or replaces the account recovery question.
func (c *Client) SetSecurityQuestion(ctx context.Context, question, answer string) error {
	return c.post(ctx, "/api/security-question", models.SecurityQuestionRequest{
		Question: question,
		Answer:   answer,
	}, nil)
}

// ForgotPassword looks up the recovery question for an email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (models.ForgotPasswordResponse, error) {
	var resp models.ForgotPasswordResponse
	err := c.post(ctx, "/api/forgot-password", models.ForgotPasswordRequest{Email: email}, &resp)
	return resp, err
}

// ResetPassword sets a new password when the recovery answer matches.
func (c *Client) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	return c.post(ctx, "/api/reset-password", models.ResetPasswordRequest{
		Email:       email,
		Answer:      answer,
		NewPassword: newPassword,
	}, nil)
}
