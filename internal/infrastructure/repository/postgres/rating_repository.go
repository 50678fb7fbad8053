package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/padel-league/internal/domain/rating"
	qb "github.com/riskibarqy/padel-league/internal/platform/querybuilder"
)

var ratingColumns = qb.Columns(ratingTableModel{}, "")

type RatingRepository struct {
	q sqlx.ExtContext
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

func (r *RatingRepository) Upsert(ctx context.Context, in rating.Rating) (rating.Rating, error) {
	insertModel := ratingInsertModel{
		MatchID:   in.MatchID,
		RaterID:   in.RaterID,
		RatedID:   in.RatedID,
		Score:     in.Score,
		Comment:   in.Comment,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
	suffix := "ON CONFLICT (match_id, rater_id, rated_id) DO UPDATE SET " +
		"score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at " +
		"RETURNING " + strings.Join(ratingColumns, ", ")
	query, args, err := qb.InsertModel("player_ratings", insertModel, suffix)
	if err != nil {
		return rating.Rating{}, fmt.Errorf("build upsert rating query: %w", err)
	}

	var row ratingTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		return rating.Rating{}, fmt.Errorf("upsert rating: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RatingRepository) ListByMatch(ctx context.Context, matchID int64) ([]rating.Rating, error) {
	return r.list(ctx, qb.Eq("match_id", matchID))
}

func (r *RatingRepository) ListByRated(ctx context.Context, userID int64) ([]rating.Rating, error) {
	return r.list(ctx, qb.Eq("rated_id", userID))
}

func (r *RatingRepository) list(ctx context.Context, cond qb.Condition) ([]rating.Rating, error) {
	query, args, err := qb.Select(ratingColumns...).From("player_ratings").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ratings query: %w", err)
	}

	var rows []ratingTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	out := make([]rating.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
