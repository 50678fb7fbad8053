package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/padel-league/internal/domain/card"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/rating"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
)

const statsLoadWorkers = 4

type PartnerStats struct {
	UserID int64
	Played int
	Won    int
}

type CardUsage struct {
	CardID int64
	Name   string
	Used   int
}

type UserStats struct {
	UserID          int64
	TotalMatches    int
	MatchesWon      int
	WinRate         float64
	RatingsReceived int
	AverageRating   float64
	Partners        []PartnerStats
	CardUsage       []CardUsage
}

type StatsService struct {
	store  uow.Store
	logger *logging.Logger
}

func NewStatsService(store uow.Store, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{store: store, logger: logger}
}

// UserStats aggregates a player's completed matches, partners, received ratings and used cards.
func (s *StatsService) UserStats(ctx context.Context, userID int64) (UserStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.UserStats")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return UserStats{}, err
	}

	repos := s.store.Repositories()
	mine, err := repos.Matches.ListParticipationsByUser(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("list user participations: %w", err)
	}
	matchIDs := make([]int64, 0, len(mine))
	participationIDs := make([]int64, 0, len(mine))
	for _, p := range mine {
		matchIDs = append(matchIDs, p.MatchID)
		participationIDs = append(participationIDs, p.ID)
	}

	var (
		matches     []match.Match
		rosters     []match.Participation
		received    []rating.Rating
		assignments []card.Assignment
	)
	loaders := []func(context.Context) error{
		func(ctx context.Context) (err error) {
			matches, err = repos.Matches.ListByIDs(ctx, matchIDs)
			return err
		},
		func(ctx context.Context) (err error) {
			rosters, err = repos.Matches.ListParticipationsByMatches(ctx, matchIDs)
			return err
		},
		func(ctx context.Context) (err error) {
			received, err = repos.Ratings.ListByRated(ctx, userID)
			return err
		},
		func(ctx context.Context) (err error) {
			assignments, err = repos.Cards.ListAssignmentsByParticipations(ctx, participationIDs)
			return err
		},
	}
	if err := runLoaders(ctx, loaders); err != nil {
		return UserStats{}, fmt.Errorf("load user stats: %w", err)
	}

	stats := UserStats{UserID: userID}
	aggregateMatches(&stats, userID, matches, rosters)
	aggregateRatings(&stats, received)
	if err := s.aggregateCards(ctx, &stats, repos, assignments); err != nil {
		return UserStats{}, err
	}
	return stats, nil
}

func aggregateMatches(stats *UserStats, userID int64, matches []match.Match, participations []match.Participation) {
	rosters := make(map[int64]match.Roster, len(matches))
	for _, p := range participations {
		rosters[p.MatchID] = append(rosters[p.MatchID], p)
	}

	partners := make(map[int64]*PartnerStats)
	for _, m := range matches {
		if m.Status != match.StatusCompleted {
			continue
		}
		roster := rosters[m.ID]
		me, ok := roster.Find(userID)
		if !ok {
			continue
		}
		won := m.WinnerTeam == me.Team
		stats.TotalMatches++
		if won {
			stats.MatchesWon++
		}

		mate, ok := roster.Teammate(userID)
		if !ok {
			continue
		}
		ps, ok := partners[mate.UserID]
		if !ok {
			ps = &PartnerStats{UserID: mate.UserID}
			partners[mate.UserID] = ps
		}
		ps.Played++
		if won {
			ps.Won++
		}
	}

	if stats.TotalMatches > 0 {
		stats.WinRate = float64(stats.MatchesWon) / float64(stats.TotalMatches)
	}
	stats.Partners = make([]PartnerStats, 0, len(partners))
	for _, ps := range partners {
		stats.Partners = append(stats.Partners, *ps)
	}
	sort.Slice(stats.Partners, func(i, j int) bool {
		a, b := stats.Partners[i], stats.Partners[j]
		if a.Played != b.Played {
			return a.Played > b.Played
		}
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		return a.UserID < b.UserID
	})
}

func aggregateRatings(stats *UserStats, received []rating.Rating) {
	if len(received) == 0 {
		return
	}
	total := 0
	for _, r := range received {
		total += r.Score
	}
	stats.RatingsReceived = len(received)
	stats.AverageRating = float64(total) / float64(len(received))
}

func (s *StatsService) aggregateCards(ctx context.Context, stats *UserStats, repos uow.Repositories, assignments []card.Assignment) error {
	counts := make(map[int64]int)
	for _, a := range assignments {
		if a.Used {
			counts[a.CardID]++
		}
	}
	stats.CardUsage = make([]CardUsage, 0, len(counts))
	if len(counts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	cards, err := repos.Cards.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list used cards: %w", err)
	}
	for _, c := range cards {
		stats.CardUsage = append(stats.CardUsage, CardUsage{CardID: c.ID, Name: c.Name, Used: counts[c.ID]})
	}
	sort.Slice(stats.CardUsage, func(i, j int) bool {
		if stats.CardUsage[i].Used != stats.CardUsage[j].Used {
			return stats.CardUsage[i].Used > stats.CardUsage[j].Used
		}
		return stats.CardUsage[i].CardID < stats.CardUsage[j].CardID
	})
	return nil
}

// runLoaders runs independent reads on a bounded worker pool and returns the first error.
func runLoaders(ctx context.Context, loaders []func(context.Context) error) error {
	workers, err := ants.NewPool(statsLoadWorkers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, load := range loaders {
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			if err := load(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit loader: %w", err)
		}
	}
	wg.Wait()
	return firstErr
}
