package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dcode-github/rishstay/models"
)

func (c *Client) Reviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.call(ctx, http.MethodGet, "/api/reviews", nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) MyReview(ctx context.Context, s *Session) (*models.Review, error) {
	var r models.Review
	if err := c.call(ctx, http.MethodGet, "/api/reviews/me", s, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) AddReview(ctx context.Context, s *Session, comment string) (*models.Review, error) {
	var r models.Review
	if err := c.call(ctx, http.MethodPost, "/api/reviews/add", s, models.ReviewRequest{Comment: comment}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateReview(ctx context.Context, s *Session, id, comment string) (*models.Review, error) {
	var r models.Review
	path := "/api/reviews/update/" + url.PathEscape(id)
	if err := c.call(ctx, http.MethodPut, path, s, models.ReviewRequest{Comment: comment}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteReview(ctx context.Context, s *Session, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/reviews/delete/"+url.PathEscape(id), s, nil, nil)
}
