package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/padel-league/internal/domain/card"
	qb "github.com/riskibarqy/padel-league/internal/platform/querybuilder"
)

var (
	cardColumns       = qb.Columns(cardTableModel{}, "")
	assignmentColumns = qb.Columns(assignmentTableModel{}, "")
)

type CardRepository struct {
	q sqlx.ExtContext
}

func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{q: db}
}

func (r *CardRepository) SeedByName(ctx context.Context, seeds []card.Seed) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}

	builder := qb.InsertInto("cards").Columns("name", "description", "active")
	for _, seed := range seeds {
		builder.Values(seed.Name, seed.Description, true)
	}
	query, args, err := builder.Suffix("ON CONFLICT (name) DO NOTHING").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build seed cards query: %w", err)
	}
	n, err := execCount(ctx, r.q, "seed cards", query, args)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *CardRepository) List(ctx context.Context) ([]card.Card, error) {
	return r.list(ctx, qb.Select(cardColumns...).From("cards").OrderBy("id"))
}

func (r *CardRepository) ListActive(ctx context.Context) ([]card.Card, error) {
	return r.list(ctx, qb.Select(cardColumns...).From("cards").Where(qb.Eq("active", true)).OrderBy("id"))
}

func (r *CardRepository) ListByIDs(ctx context.Context, ids []int64) ([]card.Card, error) {
	return r.list(ctx, qb.Select(cardColumns...).From("cards").Where(qb.In("id", ids)).OrderBy("id"))
}

func (r *CardRepository) list(ctx context.Context, b *qb.SelectBuilder) ([]card.Card, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cards query: %w", err)
	}

	var rows []cardTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	out := make([]card.Card, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id int64) (card.Card, bool, error) {
	query, args, err := qb.Select(cardColumns...).From("cards").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return card.Card{}, false, fmt.Errorf("build get card query: %w", err)
	}

	var row cardTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return card.Card{}, false, nil
		}
		return card.Card{}, false, fmt.Errorf("get card: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CardRepository) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	query, args, err := qb.Update("cards").Set("active", active).Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set card active query: %w", err)
	}
	n, err := execCount(ctx, r.q, "set card active", query, args)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateAssignment leans on the unique participation key so reruns never hand out a second card.
func (r *CardRepository) CreateAssignment(ctx context.Context, a card.Assignment) (card.Assignment, bool, error) {
	insertModel := assignmentInsertModel{
		MatchID:         a.MatchID,
		ParticipationID: a.ParticipationID,
		CardID:          a.CardID,
		AssignedAt:      a.AssignedAt,
	}
	query, args, err := qb.InsertModel("card_assignments", insertModel, "ON CONFLICT (participation_id) DO NOTHING RETURNING id")
	if err != nil {
		return card.Assignment{}, false, fmt.Errorf("build create assignment query: %w", err)
	}

	if err := sqlx.GetContext(ctx, r.q, &a.ID, query, args...); err != nil {
		if !isNotFound(err) {
			return card.Assignment{}, false, fmt.Errorf("create card assignment: %w", err)
		}
		existing, found, err := r.GetAssignmentByParticipation(ctx, a.ParticipationID)
		if err != nil {
			return card.Assignment{}, false, err
		}
		if !found {
			return card.Assignment{}, false, fmt.Errorf("create card assignment: conflicting row for participation %d vanished", a.ParticipationID)
		}
		return existing, false, nil
	}
	return a, true, nil
}

func (r *CardRepository) GetAssignmentByParticipation(ctx context.Context, participationID int64) (card.Assignment, bool, error) {
	query, args, err := qb.Select(assignmentColumns...).From("card_assignments").
		Where(qb.Eq("participation_id", participationID)).
		ToSQL()
	if err != nil {
		return card.Assignment{}, false, fmt.Errorf("build get assignment query: %w", err)
	}

	var row assignmentTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return card.Assignment{}, false, nil
		}
		return card.Assignment{}, false, fmt.Errorf("get card assignment: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CardRepository) ListAssignmentsByMatch(ctx context.Context, matchID int64) ([]card.Assignment, error) {
	return r.listAssignments(ctx, qb.Eq("match_id", matchID))
}

func (r *CardRepository) ListAssignmentsByParticipations(ctx context.Context, participationIDs []int64) ([]card.Assignment, error) {
	return r.listAssignments(ctx, qb.In("participation_id", participationIDs))
}

func (r *CardRepository) listAssignments(ctx context.Context, cond qb.Condition) ([]card.Assignment, error) {
	query, args, err := qb.Select(assignmentColumns...).From("card_assignments").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list assignments query: %w", err)
	}

	var rows []assignmentTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list card assignments: %w", err)
	}
	out := make([]card.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// MarkUsed is a conditional update; concurrent callers race on used = false and one wins.
func (r *CardRepository) MarkUsed(ctx context.Context, assignmentID int64, at time.Time) (bool, error) {
	query, args, err := qb.Update("card_assignments").
		Set("used", true).
		Set("used_at", at).
		Where(
			qb.Eq("id", assignmentID),
			qb.Eq("used", false),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark card used query: %w", err)
	}
	n, err := execCount(ctx, r.q, "mark card used", query, args)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
