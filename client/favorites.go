package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dcode-github/rishstay/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func favoritesPath(s *Session) string {
	return "/api/user/" + url.PathEscape(s.UserID) + "/favorites"
}

func (c *Client) SetFavorites(ctx context.Context, s *Session, propertyIDs []string) ([]primitive.ObjectID, error) {
	if propertyIDs == nil {
		propertyIDs = []string{}
	}
	var ids []primitive.ObjectID
	body := models.FavoritesRequest{Favorites: propertyIDs}
	if err := c.call(ctx, http.MethodPut, favoritesPath(s), s, body, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) AddFavorite(ctx context.Context, s *Session, propertyID string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	body := models.AddFavoriteRequest{PropertyID: propertyID}
	if err := c.call(ctx, http.MethodPost, favoritesPath(s), s, body, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, s *Session, propertyID string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	path := favoritesPath(s) + "/" + url.PathEscape(propertyID)
	if err := c.call(ctx, http.MethodDelete, path, s, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) Favorites(ctx context.Context, s *Session, page, limit int) (*models.FavoritesPage, error) {
	var fp models.FavoritesPage
	req := &request{method: http.MethodGet, path: favoritesPath(s), query: pageQuery(page, limit), session: s}
	if err := c.do(ctx, req, &fp); err != nil {
		return nil, err
	}
	return &fp, nil
}
