package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/card"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"github.com/riskibarqy/padel-league/internal/platform/cache"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
)

const activeCardsCacheKey = "cards:active"

// CardService owns the card catalog. The active set is read on every distribution
// and cached until an operator toggles a card.
type CardService struct {
	store  uow.Store
	cache  *cache.Store[[]card.Card]
	logger *logging.Logger
}

func NewCardService(store uow.Store, cacheTTL time.Duration, logger *logging.Logger) *CardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CardService{
		store:  store,
		cache:  cache.NewStore[[]card.Card](cacheTTL),
		logger: logger,
	}
}

// SeedCatalog inserts missing catalog cards by name; existing rows are left untouched.
func (s *CardService) SeedCatalog(ctx context.Context) (int, error) {
	inserted, err := s.store.Repositories().Cards.SeedByName(ctx, card.Catalog())
	if err != nil {
		return 0, fmt.Errorf("seed card catalog: %w", err)
	}
	if inserted > 0 {
		s.cache.Delete(ctx, activeCardsCacheKey)
	}
	s.logger.InfoContext(ctx, "card catalog seeded", "inserted", inserted)
	return inserted, nil
}

func (s *CardService) List(ctx context.Context) ([]card.Card, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CardService.List")
	defer span.End()

	out, err := s.store.Repositories().Cards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return out, nil
}

func (s *CardService) ListActive(ctx context.Context) ([]card.Card, error) {
	return s.ActiveFrom(ctx, s.store.Repositories().Cards)
}

// ActiveFrom returns the cached active set and loads it through repo on a miss,
// so a caller holding a transaction reads on that transaction's connection.
func (s *CardService) ActiveFrom(ctx context.Context, repo card.Repository) ([]card.Card, error) {
	out, err := s.cache.GetOrLoad(ctx, activeCardsCacheKey, func(ctx context.Context) ([]card.Card, error) {
		return repo.ListActive(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list active cards: %w", err)
	}
	return out, nil
}

func (s *CardService) SetActive(ctx context.Context, cardID int64, active bool) (card.Card, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CardService.SetActive")
	defer span.End()

	if cardID <= 0 {
		return card.Card{}, fmt.Errorf("%w: card id is required", ErrInvalidInput)
	}

	var out card.Card
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		found, err := tx.Cards.SetActive(ctx, cardID, active)
		if err != nil {
			return fmt.Errorf("set card active: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: card not found", ErrNotFound)
		}

		c, found, err := tx.Cards.GetByID(ctx, cardID)
		if err != nil {
			return fmt.Errorf("get card: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: card not found", ErrNotFound)
		}
		out = c
		return nil
	})
	if err != nil {
		return card.Card{}, err
	}
	s.cache.Delete(ctx, activeCardsCacheKey)

	s.logger.InfoContext(ctx, "card availability changed", "card_id", cardID, "active", active)
	return out, nil
}
