package models

// User is the authenticated principal. At most one instance is current at a
// time; it is persisted to local storage on login/register and cleared on
// logout, account deletion, or session expiry.
type User struct {
	ID              string `json:"_id"`
	Fullname        string `json:"fullname"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}
