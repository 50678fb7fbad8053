package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/league"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/padel-league/internal/platform/id"
)

// fixture wires every service to one memory store and a fixed clock.
type fixture struct {
	store       *memory.Store
	now         time.Time
	leagues     *LeagueService
	cards       *CardService
	distributor *CardDistributor
	matches     *MatchService
	ratings     *RatingService
	stats       *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithPolicy(t, MatchPolicy{}, RatingPolicy{})
}

func newFixtureWithPolicy(t *testing.T, matchPolicy MatchPolicy, ratingPolicy RatingPolicy) *fixture {
	t.Helper()

	f := &fixture{
		store: memory.NewStore(),
		now:   time.Date(2026, 8, 14, 17, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.leagues = NewLeagueService(f.store, idgen.NewRandomGenerator(), nil)
	f.leagues.now = clock
	f.cards = NewCardService(f.store, time.Minute, nil)
	f.distributor = NewCardDistributor(f.cards, NewSeededPicker(42), nil)
	f.distributor.now = clock
	f.matches = NewMatchService(f.store, f.distributor, matchPolicy, nil)
	f.matches.now = clock
	f.ratings = NewRatingService(f.store, ratingPolicy, nil)
	f.ratings.now = clock
	f.stats = NewStatsService(f.store, nil)

	if _, err := f.cards.SeedCatalog(t.Context()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return f
}

// leagueWith creates a league owned by creator and joins every other user by invite code.
func (f *fixture) leagueWith(t *testing.T, creator int64, others ...int64) league.League {
	t.Helper()

	l, err := f.leagues.Create(t.Context(), CreateLeagueInput{UserID: creator, Name: "Thursday Padel"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	for _, userID := range others {
		if _, err := f.leagues.Join(t.Context(), JoinLeagueInput{UserID: userID, InviteCode: l.InviteCode}); err != nil {
			t.Fatalf("user %d join league: %v", userID, err)
		}
	}
	return l
}

func (f *fixture) matchIn(t *testing.T, leagueID, creator int64) match.Match {
	t.Helper()

	m, err := f.matches.Create(t.Context(), CreateMatchInput{
		UserID:      creator,
		LeagueID:    leagueID,
		ScheduledAt: f.now.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

// startedMatch returns a match that users 1 and 2 (team 1) and 3 and 4 (team 2) filled.
func (f *fixture) startedMatch(t *testing.T) match.Match {
	t.Helper()

	l := f.leagueWith(t, 1, 2, 3, 4)
	m := f.matchIn(t, l.ID, 1)
	for _, in := range []JoinMatchInput{
		{UserID: 1, MatchID: m.ID, Team: 1},
		{UserID: 2, MatchID: m.ID, Team: 1},
		{UserID: 3, MatchID: m.ID, Team: 2},
		{UserID: 4, MatchID: m.ID, Team: 2},
	} {
		if _, err := f.matches.Join(t.Context(), in); err != nil {
			t.Fatalf("user %d join match: %v", in.UserID, err)
		}
	}
	return f.reload(t, m.ID)
}

func (f *fixture) completedMatch(t *testing.T, winner int) match.Match {
	t.Helper()

	m := f.startedMatch(t)
	out, err := f.matches.SubmitResult(t.Context(), SubmitResultInput{UserID: 1, MatchID: m.ID, WinnerTeam: winner})
	if err != nil {
		t.Fatalf("submit result: %v", err)
	}
	return out
}

func (f *fixture) reload(t *testing.T, matchID int64) match.Match {
	t.Helper()

	m, ok, err := f.store.Repositories().Matches.GetByID(t.Context(), matchID)
	if err != nil || !ok {
		t.Fatalf("reload match %d: ok=%v err=%v", matchID, ok, err)
	}
	return m
}
