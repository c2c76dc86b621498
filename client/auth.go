package client

import (
	"context"
	"net/http"

	"github.com/dcode-github/rishstay/models"
)

func sessionFrom(auth models.AuthResponse) *Session {
	s := &Session{Token: auth.AuthToken}
	if auth.User != nil {
		s.UserID = auth.User.ID.Hex()
	}
	return s
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*Session, *models.User, error) {
	var auth models.AuthResponse
	if err := c.call(ctx, http.MethodPost, "/api/auth/createuser", nil, req, &auth); err != nil {
		return nil, nil, err
	}
	return sessionFrom(auth), auth.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, *models.User, error) {
	var auth models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, req, &auth); err != nil {
		return nil, nil, err
	}
	return sessionFrom(auth), auth.User, nil
}

func (c *Client) CurrentUser(ctx context.Context, s *Session) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodPost, "/api/auth/getuser", s, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, s *Session, upd models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodPut, "/api/auth/updateuser", s, upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
