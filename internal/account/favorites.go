package account

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"artfolio/shared/go/models"
)

// ListFavorites returns the authoritative favorites list, newest first as
// ordered by the server.
func (c *Client) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	resp, err := c.do(ctx, http.MethodGet, "/favorites", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.sessionExpired()
		return nil, ErrSessionExpired
	}
	if !successful(resp) {
		return nil, fmt.Errorf("list favorites: unexpected status %d", resp.StatusCode)
	}

	var favorites []models.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&favorites); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite saves the artist and returns the server-created Favorite,
// whose AddedAt timestamp orders the display list.
func (c *Client) AddFavorite(ctx context.Context, artistID string) (*models.Favorite, error) {
	resp, err := c.do(ctx, http.MethodPost, "/favorites", nil, models.FavoriteRequest{ArtistID: artistID})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.sessionExpired()
		return nil, ErrSessionExpired
	}
	if !successful(resp) {
		return nil, fmt.Errorf("add favorite: unexpected status %d", resp.StatusCode)
	}

	var favorite models.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&favorite); err != nil {
		return nil, fmt.Errorf("decode favorite: %w", err)
	}
	return &favorite, nil
}

// RemoveFavorite deletes the favorite for the given artist.
func (c *Client) RemoveFavorite(ctx context.Context, artistID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/favorites", url.Values{"id": {artistID}}, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.sessionExpired()
		return ErrSessionExpired
	}
	if !successful(resp) {
		return fmt.Errorf("remove favorite: unexpected status %d", resp.StatusCode)
	}
	return nil
}
