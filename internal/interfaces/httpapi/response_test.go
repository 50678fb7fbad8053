package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/riskibarqy/padel-league/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_Taxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err        error
		httpStatus int
		status     string
	}{
		{err: usecase.ErrUnauthorized, httpStatus: http.StatusUnauthorized, status: "UNAUTHENTICATED"},
		{err: usecase.ErrForbidden, httpStatus: http.StatusForbidden, status: "PERMISSION_DENIED"},
		{err: usecase.ErrNotFound, httpStatus: http.StatusNotFound, status: "NOT_FOUND"},
		{err: usecase.ErrInvalidState, httpStatus: http.StatusBadRequest, status: "FAILED_PRECONDITION"},
		{err: usecase.ErrConflict, httpStatus: http.StatusConflict, status: "ALREADY_EXISTS"},
		{err: usecase.ErrCapacity, httpStatus: http.StatusConflict, status: "RESOURCE_EXHAUSTED"},
		{err: usecase.ErrInvalidInput, httpStatus: http.StatusBadRequest, status: "INVALID_ARGUMENT"},
		{err: usecase.ErrDependencyUnavailable, httpStatus: http.StatusServiceUnavailable, status: "UNAVAILABLE"},
		{err: fmt.Errorf("boom"), httpStatus: http.StatusInternalServerError, status: "INTERNAL"},
	}
	for _, tc := range cases {
		got := mapError(context.Background(), fmt.Errorf("wrapped: %w", tc.err))
		if got.HTTPStatus != tc.httpStatus || got.Status != tc.status {
			t.Fatalf("mapError(%v) = %d %s, want %d %s", tc.err, got.HTTPStatus, got.Status, tc.httpStatus, tc.status)
		}
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
