package domain

import "time"

// Direction is the verdict of a swipe.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is one of the two directions the API accepts.
func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Swipe is a recorded swipe on an item.
type Swipe struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ItemID    int       `json:"item_id"`
	Direction Direction `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}
