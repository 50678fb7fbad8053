package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/rating"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type RatingEntry struct {
	RatedID int64
	Score   int
	Comment string
}

type SubmitRatingsInput struct {
	UserID  int64
	MatchID int64
	Ratings []RatingEntry
}

type RatingPolicy struct {
	// RequireComplete makes every submission cover all co-participants.
	RequireComplete bool
}

type RatingService struct {
	store  uow.Store
	policy RatingPolicy
	logger *logging.Logger
	now    func() time.Time
}

func NewRatingService(store uow.Store, policy RatingPolicy, logger *logging.Logger) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RatingService{
		store:  store,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitRatings upserts the caller's ratings for a completed match. Every entry is
// checked before anything is written, so one bad entry rejects the whole batch.
func (s *RatingService) SubmitRatings(ctx context.Context, input SubmitRatingsInput) ([]rating.Rating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.SubmitRatings", attribute.Int64("match.id", input.MatchID))
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return nil, err
	}
	if len(input.Ratings) == 0 {
		return nil, fmt.Errorf("%w: at least one rating is required", ErrInvalidInput)
	}

	var saved []rating.Rating
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Repositories) error {
		m, err := loadMatch(ctx, tx.Matches, input.MatchID, false)
		if err != nil {
			return err
		}
		if m.Status != match.StatusCompleted {
			return fmt.Errorf("%w: ratings are only accepted for completed matches", ErrInvalidState)
		}
		participations, err := tx.Matches.ListParticipations(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list participations: %w", err)
		}
		roster := match.Roster(participations)
		if _, ok := roster.Find(input.UserID); !ok {
			return fmt.Errorf("%w: only participants can rate this match", ErrForbidden)
		}

		now := s.now().UTC()
		batch, err := s.buildBatch(input, roster, now)
		if err != nil {
			return err
		}

		saved = make([]rating.Rating, 0, len(batch))
		for _, r := range batch {
			out, err := tx.Ratings.Upsert(ctx, r)
			if err != nil {
				return fmt.Errorf("upsert rating: %w", err)
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "ratings submitted", "match_id", input.MatchID, "user_id", input.UserID, "count", len(saved))
	return saved, nil
}

func (s *RatingService) buildBatch(input SubmitRatingsInput, roster match.Roster, now time.Time) ([]rating.Rating, error) {
	seen := make(map[int64]struct{}, len(input.Ratings))
	batch := make([]rating.Rating, 0, len(input.Ratings))
	for i, entry := range input.Ratings {
		if entry.RatedID == input.UserID {
			return nil, fmt.Errorf("%w: ratings[%d]: players cannot rate themselves", ErrInvalidInput, i)
		}
		if _, ok := roster.Find(entry.RatedID); !ok {
			return nil, fmt.Errorf("%w: ratings[%d]: user %d did not play this match", ErrInvalidInput, i, entry.RatedID)
		}
		if _, dup := seen[entry.RatedID]; dup {
			return nil, fmt.Errorf("%w: ratings[%d]: user %d rated twice", ErrInvalidInput, i, entry.RatedID)
		}
		seen[entry.RatedID] = struct{}{}

		r := rating.Rating{
			MatchID:   input.MatchID,
			RaterID:   input.UserID,
			RatedID:   entry.RatedID,
			Score:     entry.Score,
			Comment:   strings.TrimSpace(entry.Comment),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: ratings[%d]: %s", ErrInvalidInput, i, err.Error())
		}
		batch = append(batch, r)
	}

	if s.policy.RequireComplete && len(seen) < len(roster)-1 {
		return nil, fmt.Errorf("%w: all %d co-participants must be rated", ErrInvalidInput, len(roster)-1)
	}
	return batch, nil
}

// ListByMatch returns all ratings of a match to one of its participants.
func (s *RatingService) ListByMatch(ctx context.Context, userID, matchID int64) ([]rating.Rating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.ListByMatch", attribute.Int64("match.id", matchID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	if _, err := loadMatch(ctx, repos.Matches, matchID, false); err != nil {
		return nil, err
	}
	participations, err := repos.Matches.ListParticipations(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	if _, ok := match.Roster(participations).Find(userID); !ok {
		return nil, fmt.Errorf("%w: only participants can see ratings", ErrForbidden)
	}

	out, err := repos.Ratings.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return out, nil
}
