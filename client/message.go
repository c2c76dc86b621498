package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dcode-github/rishstay/models"
)

func (c *Client) SendMessage(ctx context.Context, s *Session, req models.SendMessageRequest) (*models.Message, error) {
	var m models.Message
	if err := c.call(ctx, http.MethodPost, "/api/message/send", s, req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) messages(ctx context.Context, s *Session, path string) ([]models.Message, error) {
	var msgs []models.Message
	if err := c.call(ctx, http.MethodGet, path, s, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) ReceivedMessages(ctx context.Context, s *Session) ([]models.Message, error) {
	return c.messages(ctx, s, "/api/message/received")
}

func (c *Client) SentMessages(ctx context.Context, s *Session) ([]models.Message, error) {
	return c.messages(ctx, s, "/api/message/sent")
}

func (c *Client) PropertyMessages(ctx context.Context, s *Session, propertyID string) ([]models.Message, error) {
	return c.messages(ctx, s, "/api/message/property/"+url.PathEscape(propertyID))
}

func (c *Client) MarkRead(ctx context.Context, s *Session, id string) (*models.Message, error) {
	var m models.Message
	if err := c.call(ctx, http.MethodPut, "/api/message/mark-read/"+url.PathEscape(id), s, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) Reply(ctx context.Context, s *Session, id, reply string) (*models.Message, error) {
	var m models.Message
	body := models.ReplyRequest{Reply: reply}
	if err := c.call(ctx, http.MethodPut, "/api/message/reply/"+url.PathEscape(id), s, body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMessage(ctx context.Context, s *Session, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/message/"+url.PathEscape(id), s, nil, nil)
}
