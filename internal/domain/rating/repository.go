package rating

import "context"

type Repository interface {
	// Upsert inserts the rating or replaces score and comment of the existing triple.
	Upsert(ctx context.Context, r Rating) (Rating, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Rating, error)
	ListByRated(ctx context.Context, userID int64) ([]Rating, error)
}
