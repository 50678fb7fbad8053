package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/padel-league/internal/domain/user"
	"github.com/riskibarqy/padel-league/internal/infrastructure/repository/memory"
	httpapimock "github.com/riskibarqy/padel-league/internal/mocks/httpapi"
	usecasemock "github.com/riskibarqy/padel-league/internal/mocks/usecase"
	idgen "github.com/riskibarqy/padel-league/internal/platform/id"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/riskibarqy/padel-league/internal/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-secret"

type testAPI struct {
	handler http.Handler
	blobs   *usecasemock.BlobStore
}

// newTestAPI wires the router to a memory store. Bearer tokens of the form
// "user-<id>" authenticate as that user id.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := logging.NewNop()
	store := memory.NewStore()
	ids := idgen.NewRandomGenerator()

	cards := usecase.NewCardService(store, time.Minute, logger)
	if _, err := cards.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	distributor := usecase.NewCardDistributor(cards, usecase.NewSeededPicker(7), logger)
	blobs := usecasemock.NewBlobStore(t)

	handler := NewHandler(HandlerServices{
		Leagues: usecase.NewLeagueService(store, ids, logger),
		Matches: usecase.NewMatchService(store, distributor, usecase.MatchPolicy{CardVisibilityWindow: time.Hour}, logger),
		Cards:   cards,
		Ratings: usecase.NewRatingService(store, usecase.RatingPolicy{}, logger),
		Photos:  usecase.NewPhotoService(store, blobs, ids, 1<<20, logger),
		Stats:   usecase.NewStatsService(store, logger),
	}, 1<<20, logger)

	verifier := httpapimock.NewTokenVerifier(t)
	verifier.On("VerifyAccessToken", mock.Anything, mock.Anything).
		Return(func(_ context.Context, token string) (user.Principal, error) {
			id, err := strconv.ParseInt(strings.TrimPrefix(token, "user-"), 10, 64)
			if !strings.HasPrefix(token, "user-") || err != nil {
				return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
			}
			return user.Principal{UserID: id}, nil
		}).
		Maybe()

	return &testAPI{
		handler: NewRouter(handler, verifier, logger, RouterConfig{InternalJobToken: testJobToken}),
		blobs:   blobs,
	}
}

type envelope struct {
	APIVersion string `json:"apiVersion"`
	Data       any    `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func (a *testAPI) call(t *testing.T, method, path string, userID int64, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("Authorization", "Bearer user-"+strconv.FormatInt(userID, 10))
	}
	return a.serve(t, req)
}

func (a *testAPI) serve(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var out envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	require.Equal(t, "2.0", out.APIVersion)
	return rec.Code, out
}

func dataMap(t *testing.T, env envelope) map[string]any {
	t.Helper()

	m, ok := env.Data.(map[string]any)
	require.True(t, ok, "expected object data, got %T", env.Data)
	return m
}

func dataList(t *testing.T, env envelope) []any {
	t.Helper()

	list, ok := env.Data.([]any)
	require.True(t, ok, "expected list data, got %T", env.Data)
	return list
}

func idOf(t *testing.T, m map[string]any) int64 {
	t.Helper()

	v, ok := m["id"].(float64)
	require.True(t, ok, "missing id in %v", m)
	return int64(v)
}

// startedMatch builds a league of users 1..4 and a match they fill, 1 and 2 on team 1.
func (a *testAPI) startedMatch(t *testing.T) (leagueID, matchID int64) {
	t.Helper()

	status, env := a.call(t, http.MethodPost, "/v1/leagues", 1, map[string]any{"name": "Friday Padel"})
	require.Equal(t, http.StatusCreated, status)
	created := dataMap(t, env)
	leagueID = idOf(t, created)
	code, _ := created["invite_code"].(string)
	require.Len(t, code, 8)

	for _, userID := range []int64{2, 3, 4} {
		status, _ := a.call(t, http.MethodPost, "/v1/leagues/join", userID, map[string]any{"invite_code": code})
		require.Equal(t, http.StatusOK, status)
	}

	date := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	status, env = a.call(t, http.MethodPost, fmt.Sprintf("/v1/leagues/%d/matches", leagueID), 1, map[string]any{"date": date})
	require.Equal(t, http.StatusCreated, status)
	matchID = idOf(t, dataMap(t, env))

	for userID, team := range map[int64]int{1: 1, 2: 1, 3: 2, 4: 2} {
		status, env := a.call(t, http.MethodPost, fmt.Sprintf("/v1/matches/%d/join", matchID), userID, map[string]any{"team": team})
		require.Equal(t, http.StatusCreated, status, "user %d: %+v", userID, env.Error)
	}
	return leagueID, matchID
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	status, env := api.call(t, http.MethodGet, "/healthz", 0, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", dataMap(t, env)["status"])
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	status, env := api.call(t, http.MethodGet, "/v1/leagues", 0, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHENTICATED", env.Error.Status)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set("Authorization", "Bearer nobody")
	status, env = api.serve(t, req)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHENTICATED", env.Error.Status)
}

func TestRouter_MatchLifecycle(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	leagueID, matchID := api.startedMatch(t)
	matchPath := fmt.Sprintf("/v1/matches/%d", matchID)

	status, env := api.call(t, http.MethodGet, matchPath, 1, nil)
	require.Equal(t, http.StatusOK, status)
	view := dataMap(t, env)
	require.Equal(t, "in_progress", view["status"])
	require.Equal(t, true, view["is_participating"])
	require.Equal(t, false, view["can_view_card"])
	require.Nil(t, view["winner_team"])
	require.Len(t, view["participants"], 4)
	require.NotContains(t, view, "card")

	status, env = api.call(t, http.MethodPost, matchPath+"/join", 5, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, env = api.call(t, http.MethodPost, matchPath+"/use-card", 2, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, dataMap(t, env)["used"])

	status, env = api.call(t, http.MethodPost, matchPath+"/use-card", 2, nil)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "ALREADY_EXISTS", env.Error.Status)

	status, env = api.call(t, http.MethodPost, matchPath+"/result", 2, map[string]any{"winner_team": 1})
	require.Equal(t, http.StatusForbidden, status)

	status, env = api.call(t, http.MethodPost, matchPath+"/result", 1, map[string]any{"winner_team": 1})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "completed", dataMap(t, env)["status"])
	require.Equal(t, float64(1), dataMap(t, env)["winner_team"])

	status, env = api.call(t, http.MethodPost, matchPath+"/result", 1, map[string]any{"winner_team": 2})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "FAILED_PRECONDITION", env.Error.Status)

	for _, comment := range []string{"solid", "great lobs"} {
		status, env = api.call(t, http.MethodPost, matchPath+"/ratings", 2, map[string]any{
			"ratings": []map[string]any{{"rated_id": 3, "score": 8, "comment": comment}},
		})
		require.Equal(t, http.StatusOK, status, "%+v", env.Error)
	}
	status, env = api.call(t, http.MethodGet, matchPath+"/ratings", 3, nil)
	require.Equal(t, http.StatusOK, status)
	ratings := dataList(t, env)
	require.Len(t, ratings, 1)
	require.Equal(t, "great lobs", ratings[0].(map[string]any)["comment"])

	status, env = api.call(t, http.MethodGet, fmt.Sprintf("/v1/leagues/%d/matches", leagueID), 4, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, dataList(t, env), 1)

	status, env = api.call(t, http.MethodGet, "/v1/users/me/stats", 1, nil)
	require.Equal(t, http.StatusOK, status)
	stats := dataMap(t, env)
	require.Equal(t, float64(1), stats["total_matches"])
	require.Equal(t, float64(1), stats["matches_won"])
}

func TestRouter_ValidationErrors(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	_, matchID := api.startedMatch(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{name: "bad match id", method: http.MethodGet, path: "/v1/matches/abc"},
		{name: "missing league name", method: http.MethodPost, path: "/v1/leagues", body: map[string]any{}},
		{name: "unknown field", method: http.MethodPost, path: "/v1/leagues", body: map[string]any{"name": "x", "color": "red"}},
		{name: "bad date", method: http.MethodPost, path: "/v1/leagues/1/matches", body: map[string]any{"date": "next friday"}},
		{name: "bad team", method: http.MethodPost, path: fmt.Sprintf("/v1/matches/%d/join", matchID), body: map[string]any{"team": 3}},
		{name: "bad winner", method: http.MethodPost, path: fmt.Sprintf("/v1/matches/%d/result", matchID), body: map[string]any{"winner_team": 0}},
		{name: "score out of range", method: http.MethodPost, path: fmt.Sprintf("/v1/matches/%d/ratings", matchID), body: map[string]any{
			"ratings": []map[string]any{{"rated_id": 2, "score": 11}},
		}},
	}
	for _, tc := range cases {
		status, env := api.call(t, tc.method, tc.path, 1, tc.body)
		require.Equal(t, http.StatusBadRequest, status, tc.name)
		require.Equal(t, "INVALID_ARGUMENT", env.Error.Status, tc.name)
	}

	status, env := api.call(t, http.MethodPost, fmt.Sprintf("/v1/matches/%d/result", matchID), 2, map[string]any{"winner_team": 0})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "PERMISSION_DENIED", env.Error.Status)
}

func TestRouter_InternalRoutesRequireJobToken(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	_, matchID := api.startedMatch(t)
	distributePath := fmt.Sprintf("/v1/internal/matches/%d/distribute", matchID)

	status, env := api.call(t, http.MethodPost, distributePath, 1, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)

	req := httptest.NewRequest(http.MethodPost, distributePath, nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	status, env = api.serve(t, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(0), dataMap(t, env)["assigned"])

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/cards/1/active", strings.NewReader(`{"active":false}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	status, env = api.serve(t, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, false, dataMap(t, env)["active"])

	status, env = api.call(t, http.MethodGet, "/v1/cards", 1, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, dataList(t, env), 7)
}

func TestRouter_UploadPhoto(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	_, matchID := api.startedMatch(t)
	status, _ := api.call(t, http.MethodPost, fmt.Sprintf("/v1/matches/%d/result", matchID), 1, map[string]any{"winner_team": 2})
	require.Equal(t, http.StatusOK, status)

	api.blobs.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, fmt.Sprintf("match_photos/%d/3/", matchID)) && strings.HasSuffix(key, ".png")
	}), "image/png", mock.Anything, int64(9)).
		Return("https://cdn.example.com/photo.png", nil).
		Once()

	upload := func(fileName string) (int, envelope) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("photo", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/matches/%d/photos", matchID), &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer user-3")
		return api.serve(t, req)
	}

	status, env := upload("court.png")
	require.Equal(t, http.StatusCreated, status, "%+v", env.Error)
	require.Equal(t, "https://cdn.example.com/photo.png", dataMap(t, env)["url"])

	status, env = upload("notes.txt")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "INVALID_ARGUMENT", env.Error.Status)

	status, env = api.call(t, http.MethodGet, fmt.Sprintf("/v1/matches/%d/photos", matchID), 1, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, dataList(t, env), 1)
}
