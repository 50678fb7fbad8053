package match

import (
	"context"
	"errors"
)

var ErrDuplicateParticipation = errors.New("participation already exists")

type Repository interface {
	Create(ctx context.Context, m Match) (Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	// GetByIDForUpdate locks the match row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (Match, bool, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Match, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Match, error)
	CountByLeague(ctx context.Context, leagueID int64) (int, error)
	UpdateStatus(ctx context.Context, m Match) error
	Delete(ctx context.Context, id int64) error

	AddParticipation(ctx context.Context, p Participation) (Participation, error)
	DeleteParticipation(ctx context.Context, matchID, userID int64) (bool, error)
	ListParticipations(ctx context.Context, matchID int64) ([]Participation, error)
	ListParticipationsByMatches(ctx context.Context, matchIDs []int64) ([]Participation, error)
	ListParticipationsByUser(ctx context.Context, userID int64) ([]Participation, error)
}
