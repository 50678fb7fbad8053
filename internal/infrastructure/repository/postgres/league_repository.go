package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/padel-league/internal/domain/league"
	qb "github.com/riskibarqy/padel-league/internal/platform/querybuilder"
)

const (
	leagueInviteCodeConstraint = "leagues_invite_code_key"
	membershipPrimaryKey       = "league_memberships_pkey"
)

var leagueColumns = qb.Columns(leagueTableModel{}, "")

type LeagueRepository struct {
	q sqlx.ExtContext
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{q: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) (league.League, error) {
	insertModel := leagueInsertModel{
		Name:        l.Name,
		InviteCode:  l.InviteCode,
		IsPrivate:   l.IsPrivate,
		CreatedByID: l.CreatedByID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	query, args, err := qb.InsertModel("leagues", insertModel, "RETURNING id")
	if err != nil {
		return league.League{}, fmt.Errorf("build create league query: %w", err)
	}
	if err := sqlx.GetContext(ctx, r.q, &l.ID, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == leagueInviteCodeConstraint {
			return league.League{}, league.ErrDuplicateInviteCode
		}
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	return l, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id int64) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("invite_code", code))
}

func (r *LeagueRepository) getOne(ctx context.Context, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns...).From("leagues").Where(cond).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID int64) ([]league.League, error) {
	query, args, err := qb.Select(qb.Columns(leagueTableModel{}, "l")...).
		From("leagues l").
		Join("JOIN league_memberships lm ON lm.league_id = l.id").
		Where(qb.Eq("lm.user_id", userID)).
		OrderBy("l.created_at DESC", "l.id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user leagues: %w", err)
	}
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) UpdateName(ctx context.Context, id int64, name string, at time.Time) error {
	query, args, err := qb.Update("leagues").
		Set("name", name).
		Set("updated_at", at).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league name query: %w", err)
	}
	return execOne(ctx, r.q, "update league name", query, args)
}

func (r *LeagueRepository) UpdateInviteCode(ctx context.Context, id int64, code string, at time.Time) error {
	query, args, err := qb.Update("leagues").
		Set("invite_code", code).
		Set("updated_at", at).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update invite code query: %w", err)
	}
	err = execOne(ctx, r.q, "update invite code", query, args)
	if constraint, ok := uniqueViolation(err); ok && constraint == leagueInviteCodeConstraint {
		return league.ErrDuplicateInviteCode
	}
	return err
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Membership) error {
	query, args, err := qb.InsertModel("league_memberships", membershipInsertModel(m), "")
	if err != nil {
		return fmt.Errorf("build add member query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == membershipPrimaryKey {
			return league.ErrDuplicateMembership
		}
		return fmt.Errorf("add league member: %w", err)
	}
	return nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID int64) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("league_memberships").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build membership query: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, query, args...); err != nil {
		return false, fmt.Errorf("check league membership: %w", err)
	}
	return n > 0, nil
}

func (r *LeagueRepository) ListMemberIDs(ctx context.Context, leagueID int64) ([]int64, error) {
	query, args, err := qb.Select("user_id").From("league_memberships").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("joined_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members query: %w", err)
	}

	var out []int64
	if err := sqlx.SelectContext(ctx, r.q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	return out, nil
}
