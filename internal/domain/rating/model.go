package rating

import (
	"fmt"
	"time"
)

const (
	MinScore = 1
	MaxScore = 10

	MaxCommentLength = 500
)

// Rating is one participant's score for another; unique per (match, rater, rated).
type Rating struct {
	ID        int64
	MatchID   int64
	RaterID   int64
	RatedID   int64
	Score     int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

func (r Rating) Validate() error {
	if r.RaterID == r.RatedID {
		return fmt.Errorf("players cannot rate themselves")
	}
	if !ValidScore(r.Score) {
		return fmt.Errorf("rating must be between %d and %d, got %d", MinScore, MaxScore, r.Score)
	}
	if len([]rune(r.Comment)) > MaxCommentLength {
		return fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
	}
	return nil
}
