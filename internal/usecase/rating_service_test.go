package usecase

import (
	"errors"
	"strings"
	"testing"
)

func TestRatingService_SubmitAndUpsert(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.completedMatch(t, 1)

	saved, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{
		UserID:  1,
		MatchID: m.ID,
		Ratings: []RatingEntry{
			{RatedID: 2, Score: 8, Comment: "  solid at the net "},
			{RatedID: 3, Score: 6},
		},
	})
	if err != nil {
		t.Fatalf("submit ratings: %v", err)
	}
	if len(saved) != 2 || saved[0].Comment != "solid at the net" {
		t.Fatalf("unexpected saved ratings: %+v", saved)
	}

	again, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{
		UserID:  1,
		MatchID: m.ID,
		Ratings: []RatingEntry{{RatedID: 2, Score: 9}},
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again[0].ID != saved[0].ID || again[0].Score != 9 {
		t.Fatalf("expected in-place update of rating %d, got %+v", saved[0].ID, again[0])
	}

	list, err := f.ratings.ListByMatch(t.Context(), 4, m.ID)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 ratings after upsert, got %d", len(list))
	}
	if _, err := f.ratings.ListByMatch(t.Context(), 9, m.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non-participant, got %v", err)
	}
}

func TestRatingService_RejectsInvalidBatches(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.completedMatch(t, 2)

	cases := map[string][]RatingEntry{
		"empty":          nil,
		"self rating":    {{RatedID: 1, Score: 5}},
		"score too low":  {{RatedID: 2, Score: 0}},
		"score too high": {{RatedID: 2, Score: 11}},
		"not a player":   {{RatedID: 9, Score: 5}},
		"duplicate":      {{RatedID: 2, Score: 5}, {RatedID: 2, Score: 6}},
		"long comment":   {{RatedID: 2, Score: 5, Comment: strings.Repeat("x", 501)}},
		"partly invalid": {{RatedID: 3, Score: 7}, {RatedID: 4, Score: 12}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{UserID: 1, MatchID: m.ID, Ratings: entries})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}

	list, _ := f.store.Repositories().Ratings.ListByMatch(t.Context(), m.ID)
	if len(list) != 0 {
		t.Fatalf("rejected batches must not write anything, got %d ratings", len(list))
	}
}

func TestRatingService_RequiresCompletedMatchAndParticipant(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	started := f.startedMatch(t)
	if _, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{
		UserID: 1, MatchID: started.ID, Ratings: []RatingEntry{{RatedID: 2, Score: 5}},
	}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state for in-progress match, got %v", err)
	}

	done := f.completedMatch(t, 1)
	if _, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{
		UserID: 9, MatchID: done.ID, Ratings: []RatingEntry{{RatedID: 2, Score: 5}},
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non-participant, got %v", err)
	}
	if _, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{
		UserID: 1, MatchID: done.ID + 999, Ratings: []RatingEntry{{RatedID: 2, Score: 5}},
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRatingService_RequireCompletePolicy(t *testing.T) {
	t.Parallel()

	f := newFixtureWithPolicy(t, MatchPolicy{}, RatingPolicy{RequireComplete: true})
	m := f.completedMatch(t, 1)

	if _, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{
		UserID: 1, MatchID: m.ID, Ratings: []RatingEntry{{RatedID: 2, Score: 5}},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected incomplete batch to be rejected, got %v", err)
	}

	saved, err := f.ratings.SubmitRatings(t.Context(), SubmitRatingsInput{
		UserID:  1,
		MatchID: m.ID,
		Ratings: []RatingEntry{{RatedID: 2, Score: 5}, {RatedID: 3, Score: 6}, {RatedID: 4, Score: 7}},
	})
	if err != nil {
		t.Fatalf("complete batch: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("expected 3 ratings, got %d", len(saved))
	}
}
