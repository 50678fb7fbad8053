package postgres

import (
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/rating"
)

type ratingTableModel struct {
	ID        int64     `db:"id"`
	MatchID   int64     `db:"match_id"`
	RaterID   int64     `db:"rater_id"`
	RatedID   int64     `db:"rated_id"`
	Score     int       `db:"score"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ratingInsertModel struct {
	MatchID   int64     `db:"match_id"`
	RaterID   int64     `db:"rater_id"`
	RatedID   int64     `db:"rated_id"`
	Score     int       `db:"score"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m ratingTableModel) toDomain() rating.Rating {
	return rating.Rating{
		ID:        m.ID,
		MatchID:   m.MatchID,
		RaterID:   m.RaterID,
		RatedID:   m.RatedID,
		Score:     m.Score,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
