package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func TestSelectBuilder_ForUpdate(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "status").
		From("matches").
		Where(Eq("id", int64(9)), IsNull("deleted_at")).
		OrderBy("id").
		Limit(1).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	want := "SELECT id, status FROM matches WHERE id = $1 AND deleted_at IS NULL ORDER BY id LIMIT 1 FOR UPDATE"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{int64(9)}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinAndIn(t *testing.T) {
	t.Parallel()

	query, args, err := Select("p.user_id", "COUNT(*) AS played").
		From("match_participations p").
		Join("JOIN matches m ON m.id = p.match_id").
		Where(In("p.match_id", []int64{1, 2}), Eq("m.status", "completed")).
		GroupBy("p.user_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	want := "SELECT p.user_id, COUNT(*) AS played FROM match_participations p JOIN matches m ON m.id = p.match_id WHERE p.match_id IN ($1, $2) AND m.status = $3 GROUP BY p.user_id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{int64(1), int64(2), "completed"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("cards").Where(In("id", []int64{})).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM cards WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		MatchID int64  `db:"match_id"`
		UserID  int64  `db:"user_id"`
		Team    int    `db:"team"`
		Skip    string `db:"-"`
		hidden  string
	}

	query, args, err := InsertModel("match_participations", row{MatchID: 1, UserID: 2, Team: 1, hidden: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	want := "INSERT INTO match_participations (match_id, user_id, team) VALUES ($1, $2, $3) RETURNING id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{int64(1), int64(2), 1}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_SetExpr(t *testing.T) {
	t.Parallel()

	usedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	query, args, err := Update("card_assignments").
		Set("used", true).
		SetExpr("used_at", "COALESCE(used_at, ?)", usedAt).
		Where(Eq("id", int64(4)), Eq("used", false)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	want := "UPDATE card_assignments SET used = $1, used_at = COALESCE(used_at, $2) WHERE id = $3 AND used = $4 RETURNING id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{true, usedAt, int64(4), false}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresCondition(t *testing.T) {
	t.Parallel()

	if _, _, err := DeleteFrom("matches").ToSQL(); err == nil {
		t.Fatalf("expected error for unfiltered delete")
	}

	query, args, err := DeleteFrom("match_participations").
		Where(Eq("match_id", int64(3)), Eq("user_id", int64(5))).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM match_participations WHERE match_id = $1 AND user_id = $2" {
		t.Fatalf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{int64(3), int64(5)}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestColumns(t *testing.T) {
	t.Parallel()

	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name,omitempty"`
	}
	got := Columns(&row{}, "c")
	if !reflect.DeepEqual(got, []string{"c.id", "c.name"}) {
		t.Fatalf("unexpected columns: %v", got)
	}
}
