package variety

import (
	"strings"
	"time"
	"unicode"

	"grapetracker/internal/domain/user"
)

// Collection is the backend collection slug for grape varieties.
const Collection = "grape-varieties"

// PlaceholderThumbnail is shown for varieties without a photo.
const PlaceholderThumbnail = "https://placehold.co/100x100/e2e8f0/e2e8f0"

// Photo maps image size names to the URLs generated by the backend.
type Photo map[string]string

// Variety is the canonical record as returned by the backend.
type Variety struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Color     Color      `json:"color"`
	Origin    string     `json:"origin,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Photo     Photo      `json:"photo,omitempty"`
	Grower    *user.User `json:"grower,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
}

// ThumbnailURL returns the thumbnail of the photo or the placeholder.
func (v Variety) ThumbnailURL() string {
	if v.Photo != nil && v.Photo["thumbnail"] != "" {
		return v.Photo["thumbnail"]
	}
	return PlaceholderThumbnail
}

// CanDelete reports whether u is the grower of the variety.
// The backend enforces ownership; this is only a UI hint.
func (v Variety) CanDelete(u user.User) bool {
	return v.Grower != nil && !u.IsZero() && v.Grower.ID == u.ID
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
