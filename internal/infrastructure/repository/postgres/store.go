package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
)

// Store binds every repository to either the pool or one transaction.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repositories() uow.Repositories {
	return repositories(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx uow.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func repositories(q sqlx.ExtContext) uow.Repositories {
	return uow.Repositories{
		Leagues: &LeagueRepository{q: q},
		Matches: &MatchRepository{q: q},
		Cards:   &CardRepository{q: q},
		Ratings: &RatingRepository{q: q},
		Photos:  &PhotoRepository{q: q},
	}
}
