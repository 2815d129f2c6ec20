// Package models defines the core data structures shared by the client
// and the server: catalog entries, reviews and user profiles.
package models

// ContentType distinguishes movies from anime in the catalog.
type ContentType string

const (
	// Movie marks a title as a movie.
	Movie ContentType = "movie"
	// Anime marks a title as an anime.
	Anime ContentType = "anime"
)

// Category tags a catalog entry with the browsing section it belongs to.
type Category string

const (
	// New marks recently added titles.
	New Category = "new"
	// Popular marks trending titles.
	Popular Category = "popular"
	// Banner marks titles shown in the rotating home banner.
	Banner Category = "banner"
)

// CatalogEntry is a single browsable title. The same title may appear in
// several categories (a title can be both "new" and "banner"); uniqueness
// is only enforced inside a user's bookmark set.
type CatalogEntry struct {
	// Title is the display name and, for bookmarks, the natural key.
	Title string `json:"title"`
	// PosterName references the poster asset for this title.
	PosterName string `json:"posterName"`
	// Rating is the aggregate score, 0.0-10.0.
	Rating float64 `json:"rating"`
	// Description is the synopsis shown on the detail screen.
	Description string `json:"description"`
	// Type is "movie" or "anime".
	Type string `json:"type"`
	// Category is "new", "popular" or "banner".
	Category string `json:"category"`
}

// Review is a user-submitted review attached to a title.
type Review struct {
	// ID is the unique identifier of the review document.
	ID string `json:"id,omitempty"`
	// Username is the display name of the reviewer.
	Username string `json:"username"`
	// Text is the review body.
	Text string `json:"text"`
	// Rating is the reviewer's score.
	Rating float64 `json:"rating"`
	// Date is the submission time, RFC3339.
	Date string `json:"date"`
}

// Profile is the per-user document held remotely. It never carries a
// password; only the bcrypt hash lives server-side, and only the local
// credential record keeps the plaintext for offline comparison.
type Profile struct {
	// ID is the stable user identifier.
	ID string `json:"id"`
	// Username is the display name, unique across users.
	Username string `json:"username"`
	// Email is the login key, unique across users.
	Email string `json:"email"`
}

// User is the server-side user record with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the display name chosen by the user.
	Username string
	// Email is the login key.
	Email string
	// PasswordHash is the bcrypt hash of the password.
	PasswordHash []byte
}
