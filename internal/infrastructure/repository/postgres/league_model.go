package postgres

import (
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/league"
)

type leagueTableModel struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	InviteCode  string    `db:"invite_code"`
	IsPrivate   bool      `db:"is_private"`
	CreatedByID int64     `db:"created_by_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	Name        string    `db:"name"`
	InviteCode  string    `db:"invite_code"`
	IsPrivate   bool      `db:"is_private"`
	CreatedByID int64     `db:"created_by_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type membershipInsertModel struct {
	LeagueID int64     `db:"league_id"`
	UserID   int64     `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:          m.ID,
		Name:        m.Name,
		InviteCode:  m.InviteCode,
		IsPrivate:   m.IsPrivate,
		CreatedByID: m.CreatedByID,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
