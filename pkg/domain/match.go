package domain

import "time"

// Match is formed when two users swiped right on each other's items.
// Comments are ordered oldest first.
type Match struct {
	ID         int       `json:"id"`
	User1ID    int       `json:"user1_id"`
	User2ID    int       `json:"user2_id"`
	Item1ID    int       `json:"item1_id"`
	Item2ID    int       `json:"item2_id"`
	Item1Title string    `json:"item1_title"`
	Item2Title string    `json:"item2_title"`
	User1Name  string    `json:"user1_name"`
	User2Name  string    `json:"user2_name"`
	CreatedAt  time.Time `json:"created_at"`
	Comments   []Comment `json:"comments,omitempty"`
}

// Pairing is a match seen from one participant's side.
type Pairing struct {
	YourItem  string
	TheirItem string
	TheirName string
}

// Perspective orients the match for the user with id me. Anyone who is
// not user1 sees the match from user2's side.
func (m Match) Perspective(me int) Pairing {
	if m.User1ID == me {
		return Pairing{YourItem: m.Item1Title, TheirItem: m.Item2Title, TheirName: m.User2Name}
	}
	return Pairing{YourItem: m.Item2Title, TheirItem: m.Item1Title, TheirName: m.User1Name}
}
