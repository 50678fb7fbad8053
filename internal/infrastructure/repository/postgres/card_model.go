package postgres

import (
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/card"
)

type cardTableModel struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}

type assignmentTableModel struct {
	ID              int64      `db:"id"`
	MatchID         int64      `db:"match_id"`
	ParticipationID int64      `db:"participation_id"`
	CardID          int64      `db:"card_id"`
	Used            bool       `db:"used"`
	AssignedAt      time.Time  `db:"assigned_at"`
	UsedAt          *time.Time `db:"used_at"`
}

type assignmentInsertModel struct {
	MatchID         int64     `db:"match_id"`
	ParticipationID int64     `db:"participation_id"`
	CardID          int64     `db:"card_id"`
	AssignedAt      time.Time `db:"assigned_at"`
}

func (m cardTableModel) toDomain() card.Card {
	return card.Card{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func (m assignmentTableModel) toDomain() card.Assignment {
	out := card.Assignment{
		ID:              m.ID,
		MatchID:         m.MatchID,
		ParticipationID: m.ParticipationID,
		CardID:          m.CardID,
		Used:            m.Used,
		AssignedAt:      m.AssignedAt.UTC(),
	}
	if m.UsedAt != nil {
		usedAt := m.UsedAt.UTC()
		out.UsedAt = &usedAt
	}
	return out
}
