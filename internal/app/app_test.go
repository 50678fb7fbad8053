package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/padel-league/internal/config"
	"github.com/riskibarqy/padel-league/internal/domain/user"
	"github.com/riskibarqy/padel-league/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "app-test-secret"

func memoryConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		AppEnv:               config.EnvDev,
		HTTPAddr:             ":0",
		StoreDriver:          config.StoreDriverMemory,
		AuthMode:             config.AuthModeJWT,
		JWTSecret:            testJWTSecret,
		BlobDriver:           config.BlobDriverLocal,
		BlobLocalDir:         t.TempDir(),
		PhotoMaxBytes:        1 << 20,
		CardVisibilityWindow: time.Hour,
		CardCacheTTL:         time.Minute,
		CardPickerSeed:       42,
		CORSAllowedOrigins:   []string{"*"},
		InternalJobToken:     "job-token",
	}
}

func TestNewHTTPServer_MemoryWiring(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig(t)
	srv, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	require.Equal(t, ":0", srv.HTTP.Addr)

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	verifier, err := jwtauth.NewVerifier(jwtauth.Config{Secret: testJWTSecret})
	require.NoError(t, err)
	token, err := verifier.Sign(user.Principal{UserID: 5}, time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/cards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 7)

	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cards", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewHTTPServer_ServesLocalMedia(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.BlobLocalDir, "matches"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.BlobLocalDir, "matches", "court.png"), []byte("png"), 0o644))

	srv, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/matches/court.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "png", rec.Body.String())
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig(t)
	cfg.HTTPAddr = " "
	_, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
