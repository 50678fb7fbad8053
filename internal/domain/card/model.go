package card

import "time"

type Card struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
}

// Assignment binds one card to one participation. Used flips to true at most once.
type Assignment struct {
	ID              int64
	MatchID         int64
	ParticipationID int64
	CardID          int64
	Used            bool
	AssignedAt      time.Time
	UsedAt          *time.Time
}

// Seed is a catalog entry inserted at startup when no card with the same name exists.
type Seed struct {
	Name        string
	Description string
}

func Catalog() []Seed {
	return []Seed{
		{Name: "Point Wins Game", Description: "Turns one point won into a whole game."},
		{Name: "Switched Sides", Description: "The opposing pair must return from swapped sides."},
		{Name: "Steal Card", Description: "Take the card of a player on the opposing team."},
		{Name: "Cancel Double Fault", Description: "Cancels one double fault by your own team."},
		{Name: "Steal Serve", Description: "Take the serve from the opposing team."},
		{Name: "Replay Point", Description: "Replay the last point played."},
		{Name: "Block Rival Card", Description: "Blocks the use of a card by the opposing team."},
	}
}
