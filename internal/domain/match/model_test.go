package match

import (
	"errors"
	"testing"
	"time"
)

func TestStatus_CanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusCompleted, true},
		{StatusOpen, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusOpen, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusOpen, false},
		{StatusCancelled, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: want %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestMatch_CompleteSetsWinnerOnlyOnce(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	m := Match{ID: 1, LeagueID: 1, ScheduledAt: at, Status: StatusInProgress, CreatedByID: 1}

	if err := m.Complete(Team(3), at); err == nil {
		t.Fatalf("expected invalid winner to be rejected")
	}
	if m.Status != StatusInProgress || m.WinnerTeam != TeamNone {
		t.Fatalf("rejected completion must not mutate match: %+v", m)
	}

	if err := m.Complete(TeamOne, at); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("completed match should validate: %v", err)
	}
	if err := m.Complete(TeamTwo, at); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
	if err := m.Cancel(at); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected cancel after completion to fail, got %v", err)
	}
	if m.WinnerTeam != TeamOne {
		t.Fatalf("winner must stay team 1, got %d", m.WinnerTeam)
	}
}

func TestMatch_StartRequiresOpen(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	m := Match{Status: StatusCancelled}
	if err := m.Start(at); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}

	m.Status = StatusOpen
	if err := m.Start(at); err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.Status != StatusInProgress {
		t.Fatalf("expected in_progress, got %s", m.Status)
	}
}

func TestMatch_ValidateWinnerInvariant(t *testing.T) {
	t.Parallel()

	base := Match{LeagueID: 1, ScheduledAt: time.Now(), CreatedByID: 1}

	open := base
	open.Status = StatusOpen
	open.WinnerTeam = TeamOne
	if err := open.Validate(); err == nil {
		t.Fatalf("expected open match with winner to fail validation")
	}

	completed := base
	completed.Status = StatusCompleted
	if err := completed.Validate(); err == nil {
		t.Fatalf("expected completed match without winner to fail validation")
	}
}
