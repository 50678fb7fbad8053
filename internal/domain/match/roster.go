package match

import "errors"

var (
	ErrTeamFull    = errors.New("team is full")
	ErrInvalidTeam = errors.New("team must be 1 or 2")
)

// Roster is the set of participations of one match.
type Roster []Participation

func (r Roster) Count(team Team) int {
	n := 0
	for _, p := range r {
		if p.Team == team {
			n++
		}
	}
	return n
}

func (r Roster) Find(userID int64) (Participation, bool) {
	for _, p := range r {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participation{}, false
}

func (r Roster) Full() bool {
	return len(r) >= Capacity
}

// Teammate returns the other member of userID's team, if any.
func (r Roster) Teammate(userID int64) (Participation, bool) {
	me, ok := r.Find(userID)
	if !ok {
		return Participation{}, false
	}
	for _, p := range r {
		if p.Team == me.Team && p.UserID != userID {
			return p, true
		}
	}
	return Participation{}, false
}

// PickTeam resolves the team a new participant lands on. TeamNone selects the
// smaller team, ties going to team 1.
func (r Roster) PickTeam(requested Team) (Team, error) {
	team := requested
	switch {
	case team == TeamNone:
		team = TeamOne
		if r.Count(TeamTwo) < r.Count(TeamOne) {
			team = TeamTwo
		}
	case !team.Valid():
		return TeamNone, ErrInvalidTeam
	}

	if r.Count(team) >= PlayersPerTeam {
		return TeamNone, ErrTeamFull
	}
	return team, nil
}
