package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{
			name:         "object",
			status:       http.StatusOK,
			data:         map[string]interface{}{"word": "abandon", "count": 1},
			expectedBody: `{"count":1,"word":"abandon"}`,
		},
		{
			name:         "nil response",
			status:       http.StatusOK,
			data:         nil,
			expectedBody: `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()

			RespondWithJSON(rec, req, tc.status, tc.data)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func TestRespondWithError_IncludesTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(SetTraceID(req.Context(), "trace-123"))
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusBadRequest, "Invalid word")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid word", resp.Error)
	assert.Equal(t, "trace-123", resp.TraceID)
}

func TestRespondWithErrorAndLog_RedactsLogsAndHidesDetails(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	req := httptest.NewRequest(http.MethodPost, "/api/words/abandon/learned", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	rec := httptest.NewRecorder()

	err := errors.New("dial postgres://scry:hunter2@db:5432/scry: connection refused")
	RespondWithErrorAndLog(rec, req, http.StatusServiceUnavailable, "Learning progress could not be saved", err)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "postgres")
	assert.Contains(t, rec.Body.String(), "Learning progress could not be saved")

	logged := buf.String()
	assert.Contains(t, logged, `"level":"ERROR"`)
	assert.NotContains(t, logged, "hunter2")
	assert.True(t, strings.Contains(logged, "[REDACTED_CREDENTIAL]"), logged)
}

func TestRespondWithErrorAndLog_NotFoundIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	req := httptest.NewRequest(http.MethodPost, "/api/words/zeppelin/learned", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))

	RespondWithErrorAndLog(httptest.NewRecorder(), req, http.StatusNotFound, "Word not found", errors.New("word not found"))

	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestTraceIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetTraceID(req.Context()))

	ctx := SetTraceID(req.Context(), "")
	generated := GetTraceID(ctx)
	assert.Len(t, generated, 36)
	assert.NotEqual(t, generated, NewTraceID())
}
