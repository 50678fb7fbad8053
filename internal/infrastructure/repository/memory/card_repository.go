package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/card"
)

type CardRepository struct {
	binding
}

func (r *CardRepository) SeedByName(_ context.Context, seeds []card.Seed) (int, error) {
	inserted := 0
	err := r.write(func(d *state) error {
		names := make(map[string]struct{}, len(d.cards))
		for _, c := range d.cards {
			names[c.Name] = struct{}{}
		}
		now := time.Now().UTC()
		for _, seed := range seeds {
			if _, ok := names[seed.Name]; ok {
				continue
			}
			c := card.Card{ID: d.id(), Name: seed.Name, Description: seed.Description, Active: true, CreatedAt: now}
			d.cards[c.ID] = c
			names[c.Name] = struct{}{}
			inserted++
		}
		return nil
	})
	return inserted, err
}

func (r *CardRepository) List(_ context.Context) ([]card.Card, error) {
	return r.list(nil), nil
}

func (r *CardRepository) ListActive(_ context.Context) ([]card.Card, error) {
	return r.list(func(c card.Card) bool { return c.Active }), nil
}

func (r *CardRepository) ListByIDs(_ context.Context, ids []int64) ([]card.Card, error) {
	want := idSet(ids)
	return r.list(func(c card.Card) bool { _, ok := want[c.ID]; return ok }), nil
}

func (r *CardRepository) list(keep func(card.Card) bool) []card.Card {
	var out []card.Card
	r.read(func(d *state) {
		out = sortedValues(d.cards, keep, func(a, b card.Card) bool { return a.ID < b.ID })
	})
	return out
}

func (r *CardRepository) GetByID(_ context.Context, id int64) (card.Card, bool, error) {
	var (
		c  card.Card
		ok bool
	)
	r.read(func(d *state) { c, ok = d.cards[id] })
	return c, ok, nil
}

func (r *CardRepository) SetActive(_ context.Context, id int64, active bool) (bool, error) {
	found := false
	err := r.write(func(d *state) error {
		c, ok := d.cards[id]
		if !ok {
			return nil
		}
		c.Active = active
		d.cards[id] = c
		found = true
		return nil
	})
	return found, err
}

func (r *CardRepository) CreateAssignment(_ context.Context, a card.Assignment) (card.Assignment, bool, error) {
	created := false
	err := r.write(func(d *state) error {
		for _, existing := range d.assignments {
			if existing.ParticipationID == a.ParticipationID {
				a = existing
				return nil
			}
		}
		a.ID = d.id()
		d.assignments[a.ID] = a
		created = true
		return nil
	})
	if err != nil {
		return card.Assignment{}, false, err
	}
	return a, created, nil
}

func (r *CardRepository) GetAssignmentByParticipation(_ context.Context, participationID int64) (card.Assignment, bool, error) {
	var (
		out   card.Assignment
		found bool
	)
	r.read(func(d *state) {
		for _, a := range d.assignments {
			if a.ParticipationID == participationID {
				out, found = a, true
				return
			}
		}
	})
	return out, found, nil
}

func (r *CardRepository) ListAssignmentsByMatch(_ context.Context, matchID int64) ([]card.Assignment, error) {
	return r.listAssignments(func(a card.Assignment) bool { return a.MatchID == matchID }), nil
}

func (r *CardRepository) ListAssignmentsByParticipations(_ context.Context, participationIDs []int64) ([]card.Assignment, error) {
	want := idSet(participationIDs)
	return r.listAssignments(func(a card.Assignment) bool { _, ok := want[a.ParticipationID]; return ok }), nil
}

func (r *CardRepository) listAssignments(keep func(card.Assignment) bool) []card.Assignment {
	var out []card.Assignment
	r.read(func(d *state) {
		out = sortedValues(d.assignments, keep, func(a, b card.Assignment) bool { return a.ID < b.ID })
	})
	return out
}

func (r *CardRepository) MarkUsed(_ context.Context, assignmentID int64, at time.Time) (bool, error) {
	flipped := false
	err := r.write(func(d *state) error {
		a, ok := d.assignments[assignmentID]
		if !ok || a.Used {
			return nil
		}
		usedAt := at
		a.Used = true
		a.UsedAt = &usedAt
		d.assignments[assignmentID] = a
		flipped = true
		return nil
	})
	return flipped, err
}
