package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/padel-league/internal/domain/match"
)

type MatchRepository struct {
	binding
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	err := r.write(func(d *state) error {
		if _, ok := d.leagues[m.LeagueID]; !ok {
			return fmt.Errorf("create match: league %d not found", m.LeagueID)
		}
		m.ID = d.id()
		d.matches[m.ID] = m
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}
	return m, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	var (
		m  match.Match
		ok bool
	)
	r.read(func(d *state) { m, ok = d.matches[id] })
	return m, ok, nil
}

// GetByIDForUpdate needs no row lock: transactions on the memory store are serialized.
func (r *MatchRepository) GetByIDForUpdate(ctx context.Context, id int64) (match.Match, bool, error) {
	return r.GetByID(ctx, id)
}

func (r *MatchRepository) ListByIDs(_ context.Context, ids []int64) ([]match.Match, error) {
	want := idSet(ids)
	var out []match.Match
	r.read(func(d *state) {
		out = sortedValues(d.matches,
			func(m match.Match) bool { _, ok := want[m.ID]; return ok },
			func(a, b match.Match) bool { return a.ID < b.ID },
		)
	})
	return out, nil
}

func (r *MatchRepository) ListByLeague(_ context.Context, leagueID int64) ([]match.Match, error) {
	var out []match.Match
	r.read(func(d *state) {
		out = sortedValues(d.matches,
			func(m match.Match) bool { return m.LeagueID == leagueID },
			func(a, b match.Match) bool {
				if a.ScheduledAt.Equal(b.ScheduledAt) {
					return a.ID > b.ID
				}
				return a.ScheduledAt.After(b.ScheduledAt)
			},
		)
	})
	return out, nil
}

func (r *MatchRepository) CountByLeague(_ context.Context, leagueID int64) (int, error) {
	n := 0
	r.read(func(d *state) {
		for _, m := range d.matches {
			if m.LeagueID == leagueID {
				n++
			}
		}
	})
	return n, nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, m match.Match) error {
	return r.write(func(d *state) error {
		current, ok := d.matches[m.ID]
		if !ok {
			return fmt.Errorf("update match status: match %d not found", m.ID)
		}
		current.Status = m.Status
		current.WinnerTeam = m.WinnerTeam
		current.UpdatedAt = m.UpdatedAt
		d.matches[m.ID] = current
		return nil
	})
}

// Delete removes the match with its participations, assignments, ratings and photos.
func (r *MatchRepository) Delete(_ context.Context, id int64) error {
	return r.write(func(d *state) error {
		if _, ok := d.matches[id]; !ok {
			return fmt.Errorf("delete match: match %d not found", id)
		}
		delete(d.matches, id)
		for pid, p := range d.participations {
			if p.MatchID == id {
				delete(d.participations, pid)
			}
		}
		for aid, a := range d.assignments {
			if a.MatchID == id {
				delete(d.assignments, aid)
			}
		}
		for key := range d.ratings {
			if key.matchID == id {
				delete(d.ratings, key)
			}
		}
		for pid, p := range d.photos {
			if p.MatchID == id {
				delete(d.photos, pid)
			}
		}
		return nil
	})
}

func (r *MatchRepository) AddParticipation(_ context.Context, p match.Participation) (match.Participation, error) {
	err := r.write(func(d *state) error {
		if _, ok := d.matches[p.MatchID]; !ok {
			return fmt.Errorf("add participation: match %d not found", p.MatchID)
		}
		for _, existing := range d.participations {
			if existing.MatchID == p.MatchID && existing.UserID == p.UserID {
				return match.ErrDuplicateParticipation
			}
		}
		p.ID = d.id()
		d.participations[p.ID] = p
		return nil
	})
	if err != nil {
		return match.Participation{}, err
	}
	return p, nil
}

func (r *MatchRepository) DeleteParticipation(_ context.Context, matchID, userID int64) (bool, error) {
	removed := false
	err := r.write(func(d *state) error {
		for pid, p := range d.participations {
			if p.MatchID != matchID || p.UserID != userID {
				continue
			}
			delete(d.participations, pid)
			for aid, a := range d.assignments {
				if a.ParticipationID == pid {
					delete(d.assignments, aid)
				}
			}
			removed = true
			return nil
		}
		return nil
	})
	return removed, err
}

func (r *MatchRepository) ListParticipations(ctx context.Context, matchID int64) ([]match.Participation, error) {
	return r.ListParticipationsByMatches(ctx, []int64{matchID})
}

func (r *MatchRepository) ListParticipationsByMatches(_ context.Context, matchIDs []int64) ([]match.Participation, error) {
	want := idSet(matchIDs)
	return r.listParticipations(func(p match.Participation) bool {
		_, ok := want[p.MatchID]
		return ok
	}), nil
}

func (r *MatchRepository) ListParticipationsByUser(_ context.Context, userID int64) ([]match.Participation, error) {
	return r.listParticipations(func(p match.Participation) bool { return p.UserID == userID }), nil
}

func (r *MatchRepository) listParticipations(keep func(match.Participation) bool) []match.Participation {
	var out []match.Participation
	r.read(func(d *state) {
		out = sortedValues(d.participations, keep, func(a, b match.Participation) bool { return a.ID < b.ID })
	})
	return out
}
