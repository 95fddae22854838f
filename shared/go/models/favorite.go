package models

import "time"

// Favorite represents a user's saved artist (heart icon). It joins a subset
// of Artist fields with a server-assigned creation time. The canonical
// favorites list is a set keyed by ArtistID; AddedAt is only used for
// relative-time display and is assigned monotonically by the server.
type Favorite struct {
	ArtistID    string    `json:"artistId"`
	ArtistName  string    `json:"artistName"`
	Nationality string    `json:"nationality,omitempty"`
	Birthday    string    `json:"birthday,omitempty"`
	Deathday    string    `json:"deathday,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
}

// FavoriteRequest is the body of a favorite-creation request.
type FavoriteRequest struct {
	ArtistID string `json:"artistId"`
}
