package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/card"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
)

// Picker draws an index in [0, n).
type Picker interface {
	IntN(n int) int
}

// LockedPicker makes a math/rand/v2 source safe for concurrent draws.
type LockedPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLockedPicker(src rand.Source) *LockedPicker {
	return &LockedPicker{rnd: rand.New(src)}
}

// NewSeededPicker returns a deterministic picker for a fixed seed.
func NewSeededPicker(seed uint64) *LockedPicker {
	return NewLockedPicker(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (p *LockedPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(n)
}

type activeCardLister interface {
	ActiveFrom(ctx context.Context, repo card.Repository) ([]card.Card, error)
}

// CardDistributor hands one random active card to every participation of a match
// that has none yet. Cards are drawn with replacement.
type CardDistributor struct {
	catalog activeCardLister
	picker  Picker
	logger  *logging.Logger
	now     func() time.Time
}

func NewCardDistributor(catalog activeCardLister, picker Picker, logger *logging.Logger) *CardDistributor {
	if logger == nil {
		logger = logging.Default()
	}
	if picker == nil {
		picker = NewLockedPicker(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &CardDistributor{
		catalog: catalog,
		picker:  picker,
		logger:  logger,
		now:     time.Now,
	}
}

// Distribute fills assignment gaps for matchID inside the caller's transaction and
// returns how many assignments were created. It is a logged no-op when no card is active.
func (d *CardDistributor) Distribute(ctx context.Context, tx uow.Repositories, matchID int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CardDistributor.Distribute")
	defer span.End()

	active, err := d.catalog.ActiveFrom(ctx, tx.Cards)
	if err != nil {
		return 0, err
	}
	if len(active) == 0 {
		d.logger.WarnContext(ctx, "no active cards, skipping distribution", "match_id", matchID)
		return 0, nil
	}

	participations, err := tx.Matches.ListParticipations(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("list participations: %w", err)
	}
	existing, err := tx.Cards.ListAssignmentsByMatch(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("list card assignments: %w", err)
	}
	holding := make(map[int64]struct{}, len(existing))
	for _, a := range existing {
		holding[a.ParticipationID] = struct{}{}
	}

	now := d.now().UTC()
	created := 0
	for _, p := range participations {
		if _, ok := holding[p.ID]; ok {
			continue
		}
		drawn := active[d.picker.IntN(len(active))]
		_, ok, err := tx.Cards.CreateAssignment(ctx, card.Assignment{
			MatchID:         matchID,
			ParticipationID: p.ID,
			CardID:          drawn.ID,
			AssignedAt:      now,
		})
		if err != nil {
			return created, fmt.Errorf("create card assignment: %w", err)
		}
		if ok {
			created++
		}
	}

	d.logger.InfoContext(ctx, "cards distributed", "match_id", matchID, "created", created, "participants", len(participations))
	return created, nil
}
