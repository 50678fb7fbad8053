package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	qb "github.com/riskibarqy/padel-league/internal/platform/querybuilder"
)

const participationUniqueConstraint = "match_participations_match_user_key"

var (
	matchColumns         = qb.Columns(matchTableModel{}, "")
	participationColumns = qb.Columns(participationTableModel{}, "")
)

type MatchRepository struct {
	q sqlx.ExtContext
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{q: db}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	insertModel := matchInsertModel{
		LeagueID:    m.LeagueID,
		ScheduledAt: m.ScheduledAt,
		Status:      string(m.Status),
		CreatedByID: m.CreatedByID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	query, args, err := qb.InsertModel("matches", insertModel, "RETURNING id")
	if err != nil {
		return match.Match{}, fmt.Errorf("build create match query: %w", err)
	}
	if err := sqlx.GetContext(ctx, r.q, &m.ID, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	return r.get(ctx, qb.Select(matchColumns...).From("matches").Where(qb.Eq("id", id)))
}

func (r *MatchRepository) GetByIDForUpdate(ctx context.Context, id int64) (match.Match, bool, error) {
	return r.get(ctx, qb.Select(matchColumns...).From("matches").Where(qb.Eq("id", id)).ForUpdate())
}

func (r *MatchRepository) get(ctx context.Context, b *qb.SelectBuilder) (match.Match, bool, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByIDs(ctx context.Context, ids []int64) ([]match.Match, error) {
	return r.list(ctx, qb.Select(matchColumns...).From("matches").
		Where(qb.In("id", ids)).
		OrderBy("id"))
}

func (r *MatchRepository) ListByLeague(ctx context.Context, leagueID int64) ([]match.Match, error) {
	return r.list(ctx, qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("scheduled_at DESC", "id DESC"))
}

func (r *MatchRepository) list(ctx context.Context, b *qb.SelectBuilder) ([]match.Match, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) CountByLeague(ctx context.Context, leagueID int64) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("matches").Where(qb.Eq("league_id", leagueID)).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count league matches: %w", err)
	}
	return n, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, m match.Match) error {
	query, args, err := qb.Update("matches").
		Set("status", string(m.Status)).
		Set("winner_team", winnerTeamValue(m.WinnerTeam)).
		Set("updated_at", m.UpdatedAt).
		Where(qb.Eq("id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}
	return execOne(ctx, r.q, "update match status", query, args)
}

// Delete relies on ON DELETE CASCADE for participations, assignments, ratings and photos.
func (r *MatchRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	return execOne(ctx, r.q, "delete match", query, args)
}

func (r *MatchRepository) AddParticipation(ctx context.Context, p match.Participation) (match.Participation, error) {
	insertModel := participationInsertModel{
		MatchID:  p.MatchID,
		UserID:   p.UserID,
		Team:     int16(p.Team),
		JoinedAt: p.JoinedAt,
	}
	query, args, err := qb.InsertModel("match_participations", insertModel, "RETURNING id")
	if err != nil {
		return match.Participation{}, fmt.Errorf("build add participation query: %w", err)
	}
	if err := sqlx.GetContext(ctx, r.q, &p.ID, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == participationUniqueConstraint {
			return match.Participation{}, match.ErrDuplicateParticipation
		}
		return match.Participation{}, fmt.Errorf("add participation: %w", err)
	}
	return p, nil
}

func (r *MatchRepository) DeleteParticipation(ctx context.Context, matchID, userID int64) (bool, error) {
	query, args, err := qb.DeleteFrom("match_participations").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete participation query: %w", err)
	}
	n, err := execCount(ctx, r.q, "delete participation", query, args)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MatchRepository) ListParticipations(ctx context.Context, matchID int64) ([]match.Participation, error) {
	return r.listParticipations(ctx, qb.Eq("match_id", matchID))
}

func (r *MatchRepository) ListParticipationsByMatches(ctx context.Context, matchIDs []int64) ([]match.Participation, error) {
	return r.listParticipations(ctx, qb.In("match_id", matchIDs))
}

func (r *MatchRepository) ListParticipationsByUser(ctx context.Context, userID int64) ([]match.Participation, error) {
	return r.listParticipations(ctx, qb.Eq("user_id", userID))
}

func (r *MatchRepository) listParticipations(ctx context.Context, cond qb.Condition) ([]match.Participation, error) {
	query, args, err := qb.Select(participationColumns...).From("match_participations").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participations query: %w", err)
	}

	var rows []participationTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	out := make([]match.Participation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
