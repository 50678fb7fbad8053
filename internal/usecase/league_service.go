package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/league"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	idgen "github.com/riskibarqy/padel-league/internal/platform/id"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const inviteCodeAttempts = 5

type CreateLeagueInput struct {
	UserID    int64
	Name      string
	IsPrivate *bool
}

type JoinLeagueInput struct {
	UserID     int64
	InviteCode string
}

type UpdateLeagueNameInput struct {
	UserID   int64
	LeagueID int64
	Name     string
}

// LeagueDetail is a league as seen by one of its members.
type LeagueDetail struct {
	League     league.League
	MemberIDs  []int64
	MatchCount int
}

type LeagueService struct {
	store  uow.Store
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewLeagueService(store uow.Store, idGen idgen.Generator, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		store:  store,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores a new league and enrolls its creator as the first member.
func (s *LeagueService) Create(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return league.League{}, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}

	isPrivate := true
	if input.IsPrivate != nil {
		isPrivate = *input.IsPrivate
	}

	now := s.now().UTC()
	var created league.League
	err := s.withInviteCode(func(code string) error {
		candidate := league.League{
			Name:        input.Name,
			InviteCode:  code,
			IsPrivate:   isPrivate,
			CreatedByID: input.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := candidate.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}

		return s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
			l, err := tx.Leagues.Create(ctx, candidate)
			if err != nil {
				return err
			}
			if err := tx.Leagues.AddMember(ctx, league.Membership{LeagueID: l.ID, UserID: input.UserID, JoinedAt: now}); err != nil {
				return fmt.Errorf("add creator membership: %w", err)
			}
			created = l
			return nil
		})
	})
	if err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league created", "league_id", created.ID, "user_id", input.UserID)
	return created, nil
}

// Join redeems an invite code for the caller.
func (s *LeagueService) Join(ctx context.Context, input JoinLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Join")
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return league.League{}, err
	}
	input.InviteCode = strings.ToUpper(strings.TrimSpace(input.InviteCode))
	if input.InviteCode == "" {
		return league.League{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	var joined league.League
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		l, exists, err := tx.Leagues.GetByInviteCode(ctx, input.InviteCode)
		if err != nil {
			return fmt.Errorf("get league by invite code: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: invalid invite code", ErrNotFound)
		}

		err = tx.Leagues.AddMember(ctx, league.Membership{LeagueID: l.ID, UserID: input.UserID, JoinedAt: s.now().UTC()})
		if errors.Is(err, league.ErrDuplicateMembership) {
			return fmt.Errorf("%w: already a member of this league", ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("add league membership: %w", err)
		}
		joined = l
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league joined", "league_id", joined.ID, "user_id", input.UserID)
	return joined, nil
}

// Get returns a league with its members. Only members may read it.
func (s *LeagueService) Get(ctx context.Context, userID, leagueID int64) (LeagueDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Get", attribute.Int64("league.id", leagueID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return LeagueDetail{}, err
	}

	repos := s.store.Repositories()
	l, err := loadLeagueForMember(ctx, repos, leagueID, userID)
	if err != nil {
		return LeagueDetail{}, err
	}

	members, err := repos.Leagues.ListMemberIDs(ctx, leagueID)
	if err != nil {
		return LeagueDetail{}, fmt.Errorf("list league members: %w", err)
	}
	count, err := repos.Matches.CountByLeague(ctx, leagueID)
	if err != nil {
		return LeagueDetail{}, fmt.Errorf("count league matches: %w", err)
	}

	return LeagueDetail{League: l, MemberIDs: members, MatchCount: count}, nil
}

func (s *LeagueService) ListMine(ctx context.Context, userID int64) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMine")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	out, err := s.store.Repositories().Leagues.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}
	return out, nil
}

// UpdateName renames a league. Only the creator may do this.
func (s *LeagueService) UpdateName(ctx context.Context, input UpdateLeagueNameInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.UpdateName", attribute.Int64("league.id", input.LeagueID))
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return league.League{}, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if len([]rune(input.Name)) > league.MaxNameLength {
		return league.League{}, fmt.Errorf("%w: league name must be at most %d characters", ErrInvalidInput, league.MaxNameLength)
	}

	var updated league.League
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		l, err := loadLeagueForCreator(ctx, tx, input.LeagueID, input.UserID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if err := tx.Leagues.UpdateName(ctx, l.ID, input.Name, now); err != nil {
			return fmt.Errorf("update league name: %w", err)
		}
		l.Name = input.Name
		l.UpdatedAt = now
		updated = l
		return nil
	})
	if err != nil {
		return league.League{}, err
	}
	return updated, nil
}

// RegenerateInviteCode replaces the invite code; old codes stop working immediately.
func (s *LeagueService) RegenerateInviteCode(ctx context.Context, userID, leagueID int64) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.RegenerateInviteCode", attribute.Int64("league.id", leagueID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return league.League{}, err
	}

	var updated league.League
	err := s.withInviteCode(func(code string) error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
			l, err := loadLeagueForCreator(ctx, tx, leagueID, userID)
			if err != nil {
				return err
			}
			now := s.now().UTC()
			if err := tx.Leagues.UpdateInviteCode(ctx, l.ID, code, now); err != nil {
				return err
			}
			l.InviteCode = code
			l.UpdatedAt = now
			updated = l
			return nil
		})
	})
	if err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league invite code regenerated", "league_id", leagueID, "user_id", userID)
	return updated, nil
}

// withInviteCode retries fn with a fresh code while the store reports a collision.
func (s *LeagueService) withInviteCode(fn func(code string) error) error {
	for attempt := 1; ; attempt++ {
		code, err := s.idGen.InviteCode()
		if err != nil {
			return fmt.Errorf("generate invite code: %w", err)
		}
		err = fn(code)
		if !errors.Is(err, league.ErrDuplicateInviteCode) {
			return err
		}
		if attempt >= inviteCodeAttempts {
			return fmt.Errorf("%w: could not allocate a unique invite code", ErrConflict)
		}
	}
}

func loadLeagueForMember(ctx context.Context, repos uow.Repositories, leagueID, userID int64) (league.League, error) {
	l, exists, err := repos.Leagues.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league not found", ErrNotFound)
	}
	if err := requireMembership(ctx, repos, leagueID, userID); err != nil {
		return league.League{}, err
	}
	return l, nil
}

func loadLeagueForCreator(ctx context.Context, repos uow.Repositories, leagueID, userID int64) (league.League, error) {
	l, exists, err := repos.Leagues.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league not found", ErrNotFound)
	}
	if !l.IsCreator(userID) {
		return league.League{}, fmt.Errorf("%w: only the league creator can do this", ErrForbidden)
	}
	return l, nil
}

func requireMembership(ctx context.Context, repos uow.Repositories, leagueID, userID int64) error {
	member, err := repos.Leagues.IsMember(ctx, leagueID, userID)
	if err != nil {
		return fmt.Errorf("check league membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: not a member of this league", ErrForbidden)
	}
	return nil
}
