package photo

import "context"

type Repository interface {
	Create(ctx context.Context, p Photo) (Photo, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Photo, error)
}
