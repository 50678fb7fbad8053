package usecase

import (
	"errors"
	"slices"
	"testing"

	"github.com/riskibarqy/padel-league/internal/infrastructure/repository/memory"
)

type scriptedCodes struct {
	codes []string
}

func (g *scriptedCodes) NewID() (string, error) { return "id", nil }

func (g *scriptedCodes) InviteCode() (string, error) {
	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}
	return code, nil
}

func TestLeagueService_CreateEnrollsCreator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	l, err := f.leagues.Create(t.Context(), CreateLeagueInput{UserID: 7, Name: "  Club Norte  "})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if l.Name != "Club Norte" || !l.IsPrivate || l.CreatedByID != 7 || len(l.InviteCode) != 8 {
		t.Fatalf("unexpected league: %+v", l)
	}

	detail, err := f.leagues.Get(t.Context(), 7, l.ID)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if !slices.Equal(detail.MemberIDs, []int64{7}) {
		t.Fatalf("expected creator to be the only member, got %v", detail.MemberIDs)
	}
}

func TestLeagueService_CreateValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.leagues.Create(t.Context(), CreateLeagueInput{UserID: 7, Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := f.leagues.Create(t.Context(), CreateLeagueInput{Name: "x"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLeagueService_JoinByInviteCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	l := f.leagueWith(t, 1)

	if _, err := f.leagues.Join(t.Context(), JoinLeagueInput{UserID: 2, InviteCode: "NOPE2345"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown code, got %v", err)
	}
	joined, err := f.leagues.Join(t.Context(), JoinLeagueInput{UserID: 2, InviteCode: " " + l.InviteCode + " "})
	if err != nil {
		t.Fatalf("join league: %v", err)
	}
	if joined.ID != l.ID {
		t.Fatalf("joined wrong league %d", joined.ID)
	}
	if _, err := f.leagues.Join(t.Context(), JoinLeagueInput{UserID: 2, InviteCode: l.InviteCode}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on second join, got %v", err)
	}

	mine, err := f.leagues.ListMine(t.Context(), 2)
	if err != nil || len(mine) != 1 || mine[0].ID != l.ID {
		t.Fatalf("expected league in user list, got %+v err=%v", mine, err)
	}
}

func TestLeagueService_GetRequiresMembership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	l := f.leagueWith(t, 1, 2)

	if _, err := f.leagues.Get(t.Context(), 3, l.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
	if _, err := f.leagues.Get(t.Context(), 1, l.ID+1000); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	f.matchIn(t, l.ID, 2)
	detail, err := f.leagues.Get(t.Context(), 2, l.ID)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if detail.MatchCount != 1 || len(detail.MemberIDs) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestLeagueService_CreatorOnlyChanges(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	l := f.leagueWith(t, 1, 2)

	if _, err := f.leagues.UpdateName(t.Context(), UpdateLeagueNameInput{UserID: 2, LeagueID: l.ID, Name: "Mine now"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden rename, got %v", err)
	}
	renamed, err := f.leagues.UpdateName(t.Context(), UpdateLeagueNameInput{UserID: 1, LeagueID: l.ID, Name: "Friday Padel"})
	if err != nil || renamed.Name != "Friday Padel" {
		t.Fatalf("rename: %+v err=%v", renamed, err)
	}

	if _, err := f.leagues.RegenerateInviteCode(t.Context(), 2, l.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden regenerate, got %v", err)
	}
	regenerated, err := f.leagues.RegenerateInviteCode(t.Context(), 1, l.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if regenerated.InviteCode == l.InviteCode {
		t.Fatalf("expected a new invite code")
	}
	if _, err := f.leagues.Join(t.Context(), JoinLeagueInput{UserID: 3, InviteCode: l.InviteCode}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old code must stop working, got %v", err)
	}
}

func TestLeagueService_RetriesInviteCodeCollision(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	svc := NewLeagueService(store, &scriptedCodes{codes: []string{"TAKEN234", "TAKEN234", "FRESH234"}}, nil)

	first, err := svc.Create(t.Context(), CreateLeagueInput{UserID: 1, Name: "A"})
	if err != nil || first.InviteCode != "TAKEN234" {
		t.Fatalf("first league: %+v err=%v", first, err)
	}
	second, err := svc.Create(t.Context(), CreateLeagueInput{UserID: 2, Name: "B"})
	if err != nil {
		t.Fatalf("second league: %v", err)
	}
	if second.InviteCode != "FRESH234" {
		t.Fatalf("expected retry to use a fresh code, got %q", second.InviteCode)
	}
}
