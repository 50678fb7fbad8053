package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/padel-league/internal/domain/match"
)

func TestUniqueViolation(t *testing.T) {
	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("add participation: %w", &pq.Error{Code: "23505", Constraint: participationUniqueConstraint})
		constraint, ok := uniqueViolation(err)
		if !ok || constraint != participationUniqueConstraint {
			t.Fatalf("expected unique violation on %s, got %q ok=%v", participationUniqueConstraint, constraint, ok)
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		if _, ok := uniqueViolation(&pq.Error{Code: "23503", Constraint: "card_assignments_card_id_fkey"}); ok {
			t.Fatalf("expected foreign key error to be ignored")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if _, ok := uniqueViolation(fmt.Errorf("boom")); ok {
			t.Fatalf("expected plain error to be ignored")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("get match: timeout")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestMatchTableModelToDomain(t *testing.T) {
	open := matchTableModel{ID: 1, LeagueID: 2, Status: "open"}.toDomain()
	if open.WinnerTeam != match.TeamNone || open.Status != match.StatusOpen {
		t.Fatalf("unexpected open match: %+v", open)
	}

	done := matchTableModel{ID: 1, LeagueID: 2, Status: "completed", WinnerTeam: sql.NullInt16{Int16: 2, Valid: true}}.toDomain()
	if done.WinnerTeam != match.TeamTwo {
		t.Fatalf("expected team 2 winner, got %d", done.WinnerTeam)
	}

	if v := winnerTeamValue(match.TeamNone); v.Valid {
		t.Fatalf("expected NULL winner for unset team")
	}
	if v := winnerTeamValue(match.TeamOne); !v.Valid || v.Int16 != 1 {
		t.Fatalf("unexpected winner value: %+v", v)
	}
}
