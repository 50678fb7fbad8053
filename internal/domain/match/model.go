package match

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var ErrIllegalTransition = errors.New("illegal match status transition")

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition encodes open -> in_progress -> completed with cancellation from any live state.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusOpen:
		return to == StatusInProgress || to == StatusCompleted || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

type Team int

const (
	TeamNone Team = 0
	TeamOne  Team = 1
	TeamTwo  Team = 2
)

func (t Team) Valid() bool {
	return t == TeamOne || t == TeamTwo
}

const (
	PlayersPerTeam = 2
	Capacity       = 2 * PlayersPerTeam
)

// Match is a single 2v2 game. WinnerTeam is TeamNone unless Status is completed.
type Match struct {
	ID          int64
	LeagueID    int64
	ScheduledAt time.Time
	Status      Status
	WinnerTeam  Team
	CreatedByID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m Match) IsCreator(userID int64) bool {
	return m.CreatedByID == userID
}

// Upcoming reports whether the scheduled start is still ahead of now.
func (m Match) Upcoming(now time.Time) bool {
	return now.Before(m.ScheduledAt)
}

// Start moves an open match to in_progress.
func (m *Match) Start(at time.Time) error {
	if m.Status != StatusOpen {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.Status, StatusInProgress)
	}
	m.Status = StatusInProgress
	m.UpdatedAt = at
	return nil
}

// Complete records the winner and closes the match.
func (m *Match) Complete(winner Team, at time.Time) error {
	if !winner.Valid() {
		return fmt.Errorf("winner team must be 1 or 2, got %d", winner)
	}
	if !m.Status.CanTransition(StatusCompleted) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.Status, StatusCompleted)
	}
	m.Status = StatusCompleted
	m.WinnerTeam = winner
	m.UpdatedAt = at
	return nil
}

func (m *Match) Cancel(at time.Time) error {
	if !m.Status.CanTransition(StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.Status, StatusCancelled)
	}
	m.Status = StatusCancelled
	m.WinnerTeam = TeamNone
	m.UpdatedAt = at
	return nil
}

func (m Match) Validate() error {
	if m.LeagueID <= 0 {
		return fmt.Errorf("match league is required")
	}
	if m.ScheduledAt.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if !m.Status.Valid() {
		return fmt.Errorf("invalid match status %q", m.Status)
	}
	if (m.Status == StatusCompleted) != m.WinnerTeam.Valid() {
		return fmt.Errorf("winner team must be set exactly when the match is completed")
	}
	if m.CreatedByID <= 0 {
		return fmt.Errorf("match creator is required")
	}
	return nil
}

// Participation enrolls one user on one team of a match; unique per (match, user).
type Participation struct {
	ID       int64
	MatchID  int64
	UserID   int64
	Team     Team
	JoinedAt time.Time
}
