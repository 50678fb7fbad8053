package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/league"
)

type LeagueRepository struct {
	binding
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) (league.League, error) {
	err := r.write(func(d *state) error {
		if inviteCodeTaken(d, l.InviteCode, 0) {
			return league.ErrDuplicateInviteCode
		}
		l.ID = d.id()
		d.leagues[l.ID] = l
		return nil
	})
	if err != nil {
		return league.League{}, err
	}
	return l, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, id int64) (league.League, bool, error) {
	var (
		l  league.League
		ok bool
	)
	r.read(func(d *state) { l, ok = d.leagues[id] })
	return l, ok, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, code string) (league.League, bool, error) {
	var (
		out   league.League
		found bool
	)
	r.read(func(d *state) {
		for _, l := range d.leagues {
			if l.InviteCode == code {
				out, found = l, true
				return
			}
		}
	})
	return out, found, nil
}

func (r *LeagueRepository) ListByUser(_ context.Context, userID int64) ([]league.League, error) {
	var out []league.League
	r.read(func(d *state) {
		out = sortedValues(d.leagues,
			func(l league.League) bool {
				_, ok := d.memberships[memberKey{leagueID: l.ID, userID: userID}]
				return ok
			},
			func(a, b league.League) bool {
				if a.CreatedAt.Equal(b.CreatedAt) {
					return a.ID > b.ID
				}
				return a.CreatedAt.After(b.CreatedAt)
			},
		)
	})
	return out, nil
}

func (r *LeagueRepository) UpdateName(_ context.Context, id int64, name string, at time.Time) error {
	return r.write(func(d *state) error {
		l, ok := d.leagues[id]
		if !ok {
			return fmt.Errorf("update league name: league %d not found", id)
		}
		l.Name = name
		l.UpdatedAt = at
		d.leagues[id] = l
		return nil
	})
}

func (r *LeagueRepository) UpdateInviteCode(_ context.Context, id int64, code string, at time.Time) error {
	return r.write(func(d *state) error {
		l, ok := d.leagues[id]
		if !ok {
			return fmt.Errorf("update invite code: league %d not found", id)
		}
		if inviteCodeTaken(d, code, id) {
			return league.ErrDuplicateInviteCode
		}
		l.InviteCode = code
		l.UpdatedAt = at
		d.leagues[id] = l
		return nil
	})
}

func (r *LeagueRepository) AddMember(_ context.Context, m league.Membership) error {
	return r.write(func(d *state) error {
		key := memberKey{leagueID: m.LeagueID, userID: m.UserID}
		if _, ok := d.memberships[key]; ok {
			return league.ErrDuplicateMembership
		}
		d.memberships[key] = m
		return nil
	})
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, userID int64) (bool, error) {
	var ok bool
	r.read(func(d *state) {
		_, ok = d.memberships[memberKey{leagueID: leagueID, userID: userID}]
	})
	return ok, nil
}

func (r *LeagueRepository) ListMemberIDs(_ context.Context, leagueID int64) ([]int64, error) {
	var members []league.Membership
	r.read(func(d *state) {
		members = sortedValues(d.memberships,
			func(m league.Membership) bool { return m.LeagueID == leagueID },
			func(a, b league.Membership) bool {
				if a.JoinedAt.Equal(b.JoinedAt) {
					return a.UserID < b.UserID
				}
				return a.JoinedAt.Before(b.JoinedAt)
			},
		)
	})
	out := make([]int64, 0, len(members))
	for _, m := range members {
		out = append(out, m.UserID)
	}
	return out, nil
}

func inviteCodeTaken(d *state, code string, except int64) bool {
	for _, l := range d.leagues {
		if l.ID != except && l.InviteCode == code {
			return true
		}
	}
	return false
}
