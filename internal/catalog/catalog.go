// Package catalog is the read-only client for the art catalog endpoints:
// artist search, artist detail, artworks, categories and similar artists.
// Read failures are non-fatal by contract: any transport, status or decode
// problem is logged and collapsed into an empty result, so callers render
// an empty view instead of an error.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"artfolio/shared/go/logging"
	"artfolio/shared/go/models"
)

const defaultTimeout = 30 * time.Second

// Client talks to the catalog REST API. It is stateless: no caching, no
// retries, every call hits the network.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logging.Logger
}

// New creates a catalog client. A non-positive timeout falls back to 30s.
func New(baseURL string, timeout time.Duration, log *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    trimSlash(baseURL),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Wire shapes. The display name comes back as "title" from the search and
// similar endpoints but as "name" from the detail endpoint; normalization
// to models.Artist.Name happens here so the ambiguity never leaks out.
type wireArtist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Birthday    string `json:"birthday"`
	Deathday    string `json:"deathday"`
	Biography   string `json:"biography"`
	PicURL      string `json:"pic_url"`
}

func (w wireArtist) toModel() models.Artist {
	name := w.Name
	if name == "" {
		name = w.Title
	}
	return models.Artist{
		ID:          w.ID,
		Name:        name,
		Nationality: w.Nationality,
		Birthday:    w.Birthday,
		Deathday:    w.Deathday,
		Biography:   w.Biography,
		PictureURL:  w.PicURL,
	}
}

type wireArtwork struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	PicURL string `json:"pic_url"`
}

type wireCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PicURL      string `json:"pic_url"`
}

// SearchArtists returns artists matching the keyword, or an empty list.
func (c *Client) SearchArtists(ctx context.Context, keyword string) []models.Artist {
	var out []wireArtist
	if err := c.get(ctx, "/artists/search", url.Values{"keyword": {keyword}}, &out); err != nil {
		c.report(err, "search artists")
		return nil
	}
	return toArtists(out)
}

// GetArtist returns full details for one artist, or nil.
func (c *Client) GetArtist(ctx context.Context, artistID string) *models.Artist {
	var out wireArtist
	if err := c.get(ctx, "/artists", url.Values{"id": {artistID}}, &out); err != nil {
		c.report(err, "get artist")
		return nil
	}
	artist := out.toModel()
	return &artist
}

// GetArtworks returns the artist's artworks, or an empty list.
func (c *Client) GetArtworks(ctx context.Context, artistID string) []models.Artwork {
	var out []wireArtwork
	if err := c.get(ctx, "/artists/artworks", url.Values{"id": {artistID}}, &out); err != nil {
		c.report(err, "get artworks")
		return nil
	}
	artworks := make([]models.Artwork, 0, len(out))
	for _, w := range out {
		artworks = append(artworks, models.Artwork{ID: w.ID, Title: w.Title, PictureURL: w.PicURL})
	}
	return artworks
}

// GetCategories returns the artwork's categories, or an empty list.
func (c *Client) GetCategories(ctx context.Context, artworkID string) []models.Category {
	var out []wireCategory
	if err := c.get(ctx, "/artists/artworks/genes", url.Values{"id": {artworkID}}, &out); err != nil {
		c.report(err, "get categories")
		return nil
	}
	categories := make([]models.Category, 0, len(out))
	for _, w := range out {
		categories = append(categories, models.Category{
			ID:          w.ID,
			Name:        w.Name,
			Description: w.Description,
			PictureURL:  w.PicURL,
		})
	}
	return categories
}

// GetSimilarArtists returns artists similar to the given one, or an empty
// list.
func (c *Client) GetSimilarArtists(ctx context.Context, artistID string) []models.Artist {
	var out []wireArtist
	if err := c.get(ctx, "/artists/similar", url.Values{"id": {artistID}}, &out); err != nil {
		c.report(err, "get similar artists")
		return nil
	}
	return toArtists(out)
}

func toArtists(wire []wireArtist) []models.Artist {
	artists := make([]models.Artist, 0, len(wire))
	for _, w := range wire {
		artists = append(artists, w.toModel())
	}
	return artists
}

// get performs one GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	apiURL := c.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.HTTPCall(http.MethodGet, apiURL, 0, time.Since(start), err)
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.HTTPCall(http.MethodGet, apiURL, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog api error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// report logs a swallowed read failure. Cancellations are expected when a
// newer search supersedes this one, so they only log at debug.
func (c *Client) report(err error, op string) {
	if errors.Is(err, context.Canceled) {
		c.log.Debug(op + " canceled")
		return
	}
	c.log.Error(err, op)
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
