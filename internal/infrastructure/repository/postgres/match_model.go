package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/match"
)

type matchTableModel struct {
	ID          int64         `db:"id"`
	LeagueID    int64         `db:"league_id"`
	ScheduledAt time.Time     `db:"scheduled_at"`
	Status      string        `db:"status"`
	WinnerTeam  sql.NullInt16 `db:"winner_team"`
	CreatedByID int64         `db:"created_by_id"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	LeagueID    int64     `db:"league_id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Status      string    `db:"status"`
	CreatedByID int64     `db:"created_by_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type participationTableModel struct {
	ID       int64     `db:"id"`
	MatchID  int64     `db:"match_id"`
	UserID   int64     `db:"user_id"`
	Team     int16     `db:"team"`
	JoinedAt time.Time `db:"joined_at"`
}

type participationInsertModel struct {
	MatchID  int64     `db:"match_id"`
	UserID   int64     `db:"user_id"`
	Team     int16     `db:"team"`
	JoinedAt time.Time `db:"joined_at"`
}

func (m matchTableModel) toDomain() match.Match {
	out := match.Match{
		ID:          m.ID,
		LeagueID:    m.LeagueID,
		ScheduledAt: m.ScheduledAt.UTC(),
		Status:      match.Status(m.Status),
		CreatedByID: m.CreatedByID,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.WinnerTeam.Valid {
		out.WinnerTeam = match.Team(m.WinnerTeam.Int16)
	}
	return out
}

func winnerTeamValue(team match.Team) sql.NullInt16 {
	if !team.Valid() {
		return sql.NullInt16{}
	}
	return sql.NullInt16{Int16: int16(team), Valid: true}
}

func (m participationTableModel) toDomain() match.Participation {
	return match.Participation{
		ID:       m.ID,
		MatchID:  m.MatchID,
		UserID:   m.UserID,
		Team:     match.Team(m.Team),
		JoinedAt: m.JoinedAt.UTC(),
	}
}
