package card

import (
	"context"
	"time"
)

type Repository interface {
	// SeedByName inserts seeds whose name is not present yet and returns how many were added.
	SeedByName(ctx context.Context, seeds []Seed) (int, error)
	List(ctx context.Context) ([]Card, error)
	ListActive(ctx context.Context) ([]Card, error)
	GetByID(ctx context.Context, id int64) (Card, bool, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Card, error)
	SetActive(ctx context.Context, id int64, active bool) (bool, error)

	// CreateAssignment reports created=false when the participation already holds a card.
	CreateAssignment(ctx context.Context, a Assignment) (Assignment, bool, error)
	GetAssignmentByParticipation(ctx context.Context, participationID int64) (Assignment, bool, error)
	ListAssignmentsByMatch(ctx context.Context, matchID int64) ([]Assignment, error)
	ListAssignmentsByParticipations(ctx context.Context, participationIDs []int64) ([]Assignment, error)
	// MarkUsed flips used to true; it reports false when the assignment was already used.
	MarkUsed(ctx context.Context, assignmentID int64, at time.Time) (bool, error)
}
