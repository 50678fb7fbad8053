package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"go.opentelemetry.io/otel/attribute"
)

// UseCard spends the caller's card for an in-progress match. A card can be used once.
func (s *MatchService) UseCard(ctx context.Context, userID, matchID int64) (CardInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UseCard", attribute.Int64("match.id", matchID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return CardInfo{}, err
	}

	var info CardInfo
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, matchID, false)
		if err != nil {
			return err
		}
		if m.Status != match.StatusInProgress {
			return fmt.Errorf("%w: cards can only be used while the match is in progress", ErrInvalidState)
		}

		roster, err := tx.Matches.ListParticipations(ctx, matchID)
		if err != nil {
			return fmt.Errorf("list participations: %w", err)
		}
		me, ok := match.Roster(roster).Find(userID)
		if !ok {
			return fmt.Errorf("%w: not participating in this match", ErrForbidden)
		}

		current, found, err := s.cardInfo(ctx, tx, me.ID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: no card assigned for this match", ErrNotFound)
		}
		if current.Used {
			return fmt.Errorf("%w: card already used", ErrConflict)
		}

		usedAt := s.now().UTC()
		flipped, err := tx.Cards.MarkUsed(ctx, current.AssignmentID, usedAt)
		if err != nil {
			return fmt.Errorf("mark card used: %w", err)
		}
		if !flipped {
			return fmt.Errorf("%w: card already used", ErrConflict)
		}
		current.Used = true
		current.UsedAt = &usedAt
		info = current
		return nil
	})
	if err != nil {
		return CardInfo{}, err
	}

	s.logger.InfoContext(ctx, "card used", "match_id", matchID, "user_id", userID, "card_id", info.CardID)
	return info, nil
}
