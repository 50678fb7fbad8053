package league

import (
	"fmt"
	"time"
)

type League struct {
	ID          int64
	Name        string
	InviteCode  string
	IsPrivate   bool
	CreatedByID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l League) IsCreator(userID int64) bool {
	return l.CreatedByID == userID
}

// Membership links a user to a league; unique per (league, user).
type Membership struct {
	LeagueID int64
	UserID   int64
	JoinedAt time.Time
}

const MaxNameLength = 100

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if len([]rune(l.Name)) > MaxNameLength {
		return fmt.Errorf("league name must be at most %d characters", MaxNameLength)
	}
	if l.InviteCode == "" {
		return fmt.Errorf("league invite code is required")
	}
	if l.CreatedByID <= 0 {
		return fmt.Errorf("league creator is required")
	}
	return nil
}
