package domain

import "time"

// Item is something a user offers for barter.
type Item struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	OwnerName   string    `json:"owner_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy filters items down to those whose owner is userID.
// The returned slice is never nil.
func OwnedBy(items []Item, userID int) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out
}
