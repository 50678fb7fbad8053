package rating

import "testing"

func TestRating_Validate(t *testing.T) {
	t.Parallel()

	valid := Rating{MatchID: 1, RaterID: 2, RatedID: 3, Score: 8}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid rating: %v", err)
	}

	self := valid
	self.RatedID = self.RaterID
	if err := self.Validate(); err == nil {
		t.Fatalf("expected self rating to fail")
	}

	for _, score := range []int{0, 11, -1} {
		r := valid
		r.Score = score
		if err := r.Validate(); err == nil {
			t.Fatalf("expected score %d to fail", score)
		}
	}
}
