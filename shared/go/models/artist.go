package models

// Artist is a catalog artist. Name is normalized at the API-client boundary:
// some endpoints return the display name as "name", others as "title", and
// the client resolves that before an Artist reaches shared state.
type Artist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	Birthday    string `json:"birthday,omitempty"`
	Deathday    string `json:"deathday,omitempty"`
	Biography   string `json:"biography,omitempty"`
	PictureURL  string `json:"pic_url,omitempty"`
}

// Artwork is a single work belonging to an Artist, fetched on demand and
// never cached beyond the current view.
type Artwork struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PictureURL string `json:"pic_url,omitempty"`
}

// Category is a gene/category attached to an Artwork.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PictureURL  string `json:"pic_url,omitempty"`
}
