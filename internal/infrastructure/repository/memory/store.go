package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/riskibarqy/padel-league/internal/domain/card"
	"github.com/riskibarqy/padel-league/internal/domain/league"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/photo"
	"github.com/riskibarqy/padel-league/internal/domain/rating"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
)

type memberKey struct {
	leagueID int64
	userID   int64
}

type ratingKey struct {
	matchID int64
	raterID int64
	ratedID int64
}

type state struct {
	nextID int64

	leagues        map[int64]league.League
	memberships    map[memberKey]league.Membership
	matches        map[int64]match.Match
	participations map[int64]match.Participation
	cards          map[int64]card.Card
	assignments    map[int64]card.Assignment
	ratings        map[ratingKey]rating.Rating
	photos         map[int64]photo.Photo
}

func newState() *state {
	return &state{
		leagues:        make(map[int64]league.League),
		memberships:    make(map[memberKey]league.Membership),
		matches:        make(map[int64]match.Match),
		participations: make(map[int64]match.Participation),
		cards:          make(map[int64]card.Card),
		assignments:    make(map[int64]card.Assignment),
		ratings:        make(map[ratingKey]rating.Rating),
		photos:         make(map[int64]photo.Photo),
	}
}

// clone copies every table. Records are values, UsedAt pointers are never mutated in place.
func (s *state) clone() *state {
	return &state{
		nextID:         s.nextID,
		leagues:        maps.Clone(s.leagues),
		memberships:    maps.Clone(s.memberships),
		matches:        maps.Clone(s.matches),
		participations: maps.Clone(s.participations),
		cards:          maps.Clone(s.cards),
		assignments:    maps.Clone(s.assignments),
		ratings:        maps.Clone(s.ratings),
		photos:         maps.Clone(s.photos),
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// Store keeps every table in process memory. Transactions are serialized and
// rolled back by restoring a snapshot taken when they began. Writes made outside
// a transaction also take txMu, so a rollback never discards them.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) Repositories() uow.Repositories {
	return s.repositories(binding{store: s})
}

func (s *Store) repositories(b binding) uow.Repositories {
	return uow.Repositories{
		Leagues: &LeagueRepository{b},
		Matches: &MatchRepository{b},
		Cards:   &CardRepository{b},
		Ratings: &RatingRepository{b},
		Photos:  &PhotoRepository{b},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx uow.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s.repositories(binding{store: s, inTx: true})); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(d *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// binding ties a repository to the store. Outside a transaction every write runs
// as its own single-statement transaction under txMu.
type binding struct {
	store *Store
	inTx  bool
}

func (b binding) read(fn func(d *state)) {
	b.store.read(fn)
}

func (b binding) write(fn func(d *state) error) error {
	if !b.inTx {
		b.store.txMu.Lock()
		defer b.store.txMu.Unlock()
	}
	return b.store.write(fn)
}

func sortedValues[K comparable, V any](m map[K]V, keep func(V) bool, less func(a, b V) bool) []V {
	out := make([]V, 0)
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
