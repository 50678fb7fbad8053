package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"go.opentelemetry.io/otel/attribute"
)

type JoinMatchInput struct {
	UserID  int64
	MatchID int64
	// Team is 1 or 2; zero lets the roster pick the smaller team.
	Team int
}

// Join enrolls the caller. The match row stays locked until commit, so the fourth
// join, the card distribution and the switch to in_progress happen as one unit.
func (s *MatchService) Join(ctx context.Context, input JoinMatchInput) (match.Participation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Join", attribute.Int64("match.id", input.MatchID))
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return match.Participation{}, err
	}
	requested := match.Team(input.Team)
	if requested != match.TeamNone && !requested.Valid() {
		return match.Participation{}, fmt.Errorf("%w: team must be 1 or 2", ErrInvalidInput)
	}

	var (
		joined  match.Participation
		started bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, input.MatchID, true)
		if err != nil {
			return err
		}
		if err := requireMembership(ctx, tx, m.LeagueID, input.UserID); err != nil {
			return err
		}
		now := s.now().UTC()
		if m.Status != match.StatusOpen {
			return fmt.Errorf("%w: match is %s", ErrInvalidState, m.Status)
		}
		if !m.Upcoming(now) {
			return fmt.Errorf("%w: match date has already passed", ErrInvalidState)
		}

		roster, err := tx.Matches.ListParticipations(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list participations: %w", err)
		}
		if _, ok := match.Roster(roster).Find(input.UserID); ok {
			return fmt.Errorf("%w: already joined this match", ErrConflict)
		}
		team, err := match.Roster(roster).PickTeam(requested)
		if errors.Is(err, match.ErrTeamFull) {
			return fmt.Errorf("%w: team %d is full", ErrCapacity, pickedOrRequested(roster, requested))
		}
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}

		p, err := tx.Matches.AddParticipation(ctx, match.Participation{
			MatchID:  m.ID,
			UserID:   input.UserID,
			Team:     team,
			JoinedAt: now,
		})
		if errors.Is(err, match.ErrDuplicateParticipation) {
			return fmt.Errorf("%w: already joined this match", ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("add participation: %w", err)
		}
		joined = p

		if len(roster)+1 < match.Capacity {
			return nil
		}
		if _, err := s.distributor.Distribute(ctx, tx, m.ID); err != nil {
			return fmt.Errorf("distribute cards: %w", err)
		}
		if err := m.Start(now); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
		}
		if err := tx.Matches.UpdateStatus(ctx, m); err != nil {
			return fmt.Errorf("update match status: %w", err)
		}
		started = true
		return nil
	})
	if err != nil {
		return match.Participation{}, err
	}

	s.logger.InfoContext(ctx, "match joined", "match_id", input.MatchID, "user_id", input.UserID, "team", int(joined.Team))
	if started {
		s.logger.InfoContext(ctx, "match filled, now in progress", "match_id", input.MatchID)
	}
	return joined, nil
}

// Leave withdraws the caller from an open, upcoming match.
func (s *MatchService) Leave(ctx context.Context, userID, matchID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Leave", attribute.Int64("match.id", matchID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, matchID, true)
		if err != nil {
			return err
		}
		if m.Status != match.StatusOpen || !m.Upcoming(s.now().UTC()) {
			return fmt.Errorf("%w: can only leave open matches that have not started", ErrInvalidState)
		}
		removed, err := tx.Matches.DeleteParticipation(ctx, matchID, userID)
		if err != nil {
			return fmt.Errorf("delete participation: %w", err)
		}
		if !removed {
			return fmt.Errorf("%w: not participating in this match", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "match left", "match_id", matchID, "user_id", userID)
	return nil
}

func pickedOrRequested(roster match.Roster, requested match.Team) match.Team {
	if requested != match.TeamNone {
		return requested
	}
	if roster.Count(match.TeamTwo) < roster.Count(match.TeamOne) {
		return match.TeamTwo
	}
	return match.TeamOne
}
