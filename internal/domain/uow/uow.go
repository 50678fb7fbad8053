// Package uow defines the transactional record store shared by all services.
package uow

import (
	"context"

	"github.com/riskibarqy/padel-league/internal/domain/card"
	"github.com/riskibarqy/padel-league/internal/domain/league"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/photo"
	"github.com/riskibarqy/padel-league/internal/domain/rating"
)

// Repositories groups the record stores that one unit of work operates on.
type Repositories struct {
	Leagues league.Repository
	Matches match.Repository
	Cards   card.Repository
	Ratings rating.Repository
	Photos  photo.Repository
}

// Store is the transactional record store. Repositories returns stores bound to
// the shared connection; WithinTx runs fn against stores bound to a single
// transaction that commits only when fn returns nil.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}
