package league

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateMembership = errors.New("league membership already exists")
	ErrDuplicateInviteCode = errors.New("invite code already in use")
)

type Repository interface {
	Create(ctx context.Context, l League) (League, error)
	GetByID(ctx context.Context, id int64) (League, bool, error)
	GetByInviteCode(ctx context.Context, code string) (League, bool, error)
	ListByUser(ctx context.Context, userID int64) ([]League, error)
	UpdateName(ctx context.Context, id int64, name string, at time.Time) error
	UpdateInviteCode(ctx context.Context, id int64, code string, at time.Time) error
	AddMember(ctx context.Context, m Membership) error
	IsMember(ctx context.Context, leagueID, userID int64) (bool, error)
	ListMemberIDs(ctx context.Context, leagueID int64) ([]int64, error)
}
