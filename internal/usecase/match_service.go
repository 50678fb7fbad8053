package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/card"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultCardVisibilityWindow = time.Hour

// MatchPolicy holds the configurable rules of the match lifecycle.
type MatchPolicy struct {
	// ResultRequiresInProgress rejects results for matches that never filled up.
	ResultRequiresInProgress bool
	// CardVisibilityWindow is how long before the start a participant may see their card.
	CardVisibilityWindow time.Duration
}

type CreateMatchInput struct {
	UserID      int64
	LeagueID    int64
	ScheduledAt time.Time
}

type SubmitResultInput struct {
	UserID     int64
	MatchID    int64
	WinnerTeam int
}

// CardInfo is an assigned card as shown to its holder.
type CardInfo struct {
	AssignmentID int64
	CardID       int64
	Name         string
	Description  string
	Used         bool
	UsedAt       *time.Time
}

// MatchView is a match as seen by one league member.
type MatchView struct {
	Match           match.Match
	Participants    []match.Participation
	IsParticipating bool
	CanViewCard     bool
	Card            *CardInfo
}

type MatchSummary struct {
	Match        match.Match
	Participants []match.Participation
}

type MatchService struct {
	store       uow.Store
	distributor *CardDistributor
	policy      MatchPolicy
	logger      *logging.Logger
	now         func() time.Time
}

func NewMatchService(store uow.Store, distributor *CardDistributor, policy MatchPolicy, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if policy.CardVisibilityWindow <= 0 {
		policy.CardVisibilityWindow = DefaultCardVisibilityWindow
	}
	return &MatchService{
		store:       store,
		distributor: distributor,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

// Create schedules an open match in a league the caller belongs to.
func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create", attribute.Int64("league.id", input.LeagueID))
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return match.Match{}, err
	}
	if input.ScheduledAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: match date is required", ErrInvalidInput)
	}
	now := s.now().UTC()
	if !input.ScheduledAt.After(now) {
		return match.Match{}, fmt.Errorf("%w: match date must be in the future", ErrInvalidInput)
	}

	var created match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		if _, err := loadLeagueForMember(ctx, tx, input.LeagueID, input.UserID); err != nil {
			return err
		}
		m := match.Match{
			LeagueID:    input.LeagueID,
			ScheduledAt: input.ScheduledAt.UTC(),
			Status:      match.StatusOpen,
			CreatedByID: input.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		out, err := tx.Matches.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		created = out
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match created", "match_id", created.ID, "league_id", created.LeagueID, "user_id", input.UserID)
	return created, nil
}

// Get returns the match with its roster and, when visible, the caller's own card.
func (s *MatchService) Get(ctx context.Context, userID, matchID int64) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get", attribute.Int64("match.id", matchID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return MatchView{}, err
	}

	repos := s.store.Repositories()
	m, err := loadMatch(ctx, repos.Matches, matchID, false)
	if err != nil {
		return MatchView{}, err
	}

	var roster match.Roster
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return requireMembership(ctx, repos, m.LeagueID, userID)
	})
	p.Go(func(ctx context.Context) error {
		out, err := repos.Matches.ListParticipations(ctx, matchID)
		if err != nil {
			return fmt.Errorf("list participations: %w", err)
		}
		roster = out
		return nil
	})
	if err := p.Wait(); err != nil {
		return MatchView{}, err
	}

	view := MatchView{Match: m, Participants: roster}
	me, participating := roster.Find(userID)
	view.IsParticipating = participating
	view.CanViewCard = participating && s.cardVisible(m)
	if !view.CanViewCard {
		return view, nil
	}

	info, found, err := s.cardInfo(ctx, repos, me.ID)
	if err != nil {
		return MatchView{}, err
	}
	if found {
		view.Card = &info
	}
	return view, nil
}

// ListByLeague returns the league's matches, latest date first, with rosters.
func (s *MatchService) ListByLeague(ctx context.Context, userID, leagueID int64) ([]MatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByLeague", attribute.Int64("league.id", leagueID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	if _, err := loadLeagueForMember(ctx, repos, leagueID, userID); err != nil {
		return nil, err
	}

	matches, err := repos.Matches.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league matches: %w", err)
	}
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	participations, err := repos.Matches.ListParticipationsByMatches(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list league participations: %w", err)
	}
	byMatch := make(map[int64][]match.Participation, len(matches))
	for _, p := range participations {
		byMatch[p.MatchID] = append(byMatch[p.MatchID], p)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ScheduledAt.Equal(matches[j].ScheduledAt) {
			return matches[i].ID > matches[j].ID
		}
		return matches[i].ScheduledAt.After(matches[j].ScheduledAt)
	})

	out := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchSummary{Match: m, Participants: byMatch[m.ID]})
	}
	return out, nil
}

// SubmitResult closes the match with a winner. Only the creator may submit.
func (s *MatchService) SubmitResult(ctx context.Context, input SubmitResultInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SubmitResult", attribute.Int64("match.id", input.MatchID))
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return match.Match{}, err
	}
	winner := match.Team(input.WinnerTeam)

	var completed match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, input.MatchID, true)
		if err != nil {
			return err
		}
		if !m.IsCreator(input.UserID) {
			return fmt.Errorf("%w: only the match creator can submit the result", ErrForbidden)
		}
		if s.policy.ResultRequiresInProgress && m.Status != match.StatusInProgress {
			return fmt.Errorf("%w: match is %s, result requires in_progress", ErrInvalidState, m.Status)
		}
		if !m.Status.CanTransition(match.StatusCompleted) {
			return fmt.Errorf("%w: match is %s", ErrInvalidState, m.Status)
		}
		if !winner.Valid() {
			return fmt.Errorf("%w: winner team must be 1 or 2", ErrInvalidInput)
		}
		if err := m.Complete(winner, s.now().UTC()); err != nil {
			return fmt.Errorf("%w: match is %s", ErrInvalidState, m.Status)
		}
		if err := tx.Matches.UpdateStatus(ctx, m); err != nil {
			return fmt.Errorf("update match status: %w", err)
		}
		completed = m
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match completed", "match_id", completed.ID, "winner_team", int(completed.WinnerTeam))
	return completed, nil
}

// Cancel ends a live match without a winner. Only the creator may cancel.
func (s *MatchService) Cancel(ctx context.Context, userID, matchID int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Cancel", attribute.Int64("match.id", matchID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return match.Match{}, err
	}

	var cancelled match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, matchID, true)
		if err != nil {
			return err
		}
		if !m.IsCreator(userID) {
			return fmt.Errorf("%w: only the match creator can cancel it", ErrForbidden)
		}
		if err := m.Cancel(s.now().UTC()); err != nil {
			return fmt.Errorf("%w: match is %s", ErrInvalidState, m.Status)
		}
		if err := tx.Matches.UpdateStatus(ctx, m); err != nil {
			return fmt.Errorf("update match status: %w", err)
		}
		cancelled = m
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match cancelled", "match_id", matchID, "user_id", userID)
	return cancelled, nil
}

// Delete removes the match and everything it owns. Only the creator may delete.
func (s *MatchService) Delete(ctx context.Context, userID, matchID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete", attribute.Int64("match.id", matchID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, matchID, true)
		if err != nil {
			return err
		}
		if !m.IsCreator(userID) {
			return fmt.Errorf("%w: only the match creator can delete it", ErrForbidden)
		}
		if err := tx.Matches.Delete(ctx, matchID); err != nil {
			return fmt.Errorf("delete match: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID, "user_id", userID)
	return nil
}

// DistributeCards re-runs distribution for an in-progress match; only missing assignments are created.
func (s *MatchService) DistributeCards(ctx context.Context, matchID int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.DistributeCards", attribute.Int64("match.id", matchID))
	defer span.End()

	var created int
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, matchID, true)
		if err != nil {
			return err
		}
		if m.Status != match.StatusInProgress {
			return fmt.Errorf("%w: cards are only distributed to in-progress matches", ErrInvalidState)
		}
		created, err = s.distributor.Distribute(ctx, tx, matchID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *MatchService) cardVisible(m match.Match) bool {
	return !s.now().Before(m.ScheduledAt.Add(-s.policy.CardVisibilityWindow))
}

func (s *MatchService) cardInfo(ctx context.Context, repos uow.Repositories, participationID int64) (CardInfo, bool, error) {
	a, found, err := repos.Cards.GetAssignmentByParticipation(ctx, participationID)
	if err != nil {
		return CardInfo{}, false, fmt.Errorf("get card assignment: %w", err)
	}
	if !found {
		return CardInfo{}, false, nil
	}
	c, found, err := repos.Cards.GetByID(ctx, a.CardID)
	if err != nil {
		return CardInfo{}, false, fmt.Errorf("get card: %w", err)
	}
	if !found {
		return CardInfo{}, false, nil
	}
	return newCardInfo(a, c), true, nil
}

func newCardInfo(a card.Assignment, c card.Card) CardInfo {
	return CardInfo{
		AssignmentID: a.ID,
		CardID:       c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Used:         a.Used,
		UsedAt:       a.UsedAt,
	}
}

func loadMatch(ctx context.Context, matches match.Repository, matchID int64, forUpdate bool) (match.Match, error) {
	if matchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	get := matches.GetByID
	if forUpdate {
		get = matches.GetByIDForUpdate
	}
	m, exists, err := get(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	return m, nil
}
