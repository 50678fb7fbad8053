package memory

import (
	"context"

	"github.com/riskibarqy/padel-league/internal/domain/rating"
)

type RatingRepository struct {
	binding
}

func (r *RatingRepository) Upsert(_ context.Context, in rating.Rating) (rating.Rating, error) {
	var out rating.Rating
	err := r.write(func(d *state) error {
		key := ratingKey{matchID: in.MatchID, raterID: in.RaterID, ratedID: in.RatedID}
		if existing, ok := d.ratings[key]; ok {
			existing.Score = in.Score
			existing.Comment = in.Comment
			existing.UpdatedAt = in.UpdatedAt
			d.ratings[key] = existing
			out = existing
			return nil
		}
		in.ID = d.id()
		d.ratings[key] = in
		out = in
		return nil
	})
	return out, err
}

func (r *RatingRepository) ListByMatch(_ context.Context, matchID int64) ([]rating.Rating, error) {
	return r.list(func(x rating.Rating) bool { return x.MatchID == matchID }), nil
}

func (r *RatingRepository) ListByRated(_ context.Context, userID int64) ([]rating.Rating, error) {
	return r.list(func(x rating.Rating) bool { return x.RatedID == userID }), nil
}

func (r *RatingRepository) list(keep func(rating.Rating) bool) []rating.Rating {
	var out []rating.Rating
	r.read(func(d *state) {
		out = sortedValues(d.ratings, keep, func(a, b rating.Rating) bool { return a.ID < b.ID })
	})
	return out
}
