package match

import (
	"errors"
	"testing"
)

func TestRoster_PickTeam(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		roster    Roster
		requested Team
		want      Team
		wantErr   error
	}{
		{name: "empty roster ties to team 1", want: TeamOne},
		{
			name:   "auto picks smaller team",
			roster: Roster{{UserID: 1, Team: TeamOne}},
			want:   TeamTwo,
		},
		{
			name:   "auto tie after balanced joins",
			roster: Roster{{UserID: 1, Team: TeamOne}, {UserID: 2, Team: TeamTwo}},
			want:   TeamOne,
		},
		{
			name:      "requested team honoured",
			roster:    Roster{{UserID: 1, Team: TeamOne}},
			requested: TeamOne,
			want:      TeamOne,
		},
		{
			name:      "requested team full",
			roster:    Roster{{UserID: 1, Team: TeamOne}, {UserID: 2, Team: TeamOne}},
			requested: TeamOne,
			wantErr:   ErrTeamFull,
		},
		{
			name:      "invalid team",
			requested: Team(3),
			wantErr:   ErrInvalidTeam,
		},
		{
			name: "auto on full roster",
			roster: Roster{
				{UserID: 1, Team: TeamOne}, {UserID: 2, Team: TeamOne},
				{UserID: 3, Team: TeamTwo}, {UserID: 4, Team: TeamTwo},
			},
			wantErr: ErrTeamFull,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.roster.PickTeam(tc.requested)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pick team: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want team %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRoster_Teammate(t *testing.T) {
	t.Parallel()

	r := Roster{
		{UserID: 1, Team: TeamOne}, {UserID: 2, Team: TeamTwo},
		{UserID: 3, Team: TeamOne}, {UserID: 4, Team: TeamTwo},
	}
	mate, ok := r.Teammate(1)
	if !ok || mate.UserID != 3 {
		t.Fatalf("expected teammate 3, got %+v ok=%v", mate, ok)
	}
	if _, ok := r.Teammate(9); ok {
		t.Fatalf("expected no teammate for outsider")
	}
	if !r.Full() {
		t.Fatalf("expected roster of four to be full")
	}
}
