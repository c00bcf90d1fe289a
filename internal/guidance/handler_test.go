package guidance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/guidance-bridge/internal/ai"
)

func serve(t *testing.T, model ai.Model, method, contentType, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	router := NewRouter(NewHandler(NewService(model, discardLogger()), discardLogger()), nil)

	r := httptest.NewRequest(method, "/api/guidance", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	var out map[string]string
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestHandleGuidance_Success(t *testing.T) {
	w, out := serve(t, replying("Mocked LLM guidance"), http.MethodPost, "application/json",
		`{"onboarding_data": {"user_story": "This is my conflict."}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"guidance": "Mocked LLM guidance"}, out)
}

func TestHandleGuidance_EmptyReply(t *testing.T) {
	w, _ := serve(t, replying(""), http.MethodPost, "application/json",
		`{"onboarding_data": {"user_story": "This is my conflict."}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"guidance":""}`, w.Body.String())
}

func TestHandleGuidance_MissingOnboardingData(t *testing.T) {
	w, out := serve(t, replying("unused"), http.MethodPost, "application/json", `{"some_other_key": "data"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{"error": "Missing 'onboarding_data' in request"}, out)
}

func TestHandleGuidance_NoData(t *testing.T) {
	w, out := serve(t, replying("unused"), http.MethodPost, "text/plain", "not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No data provided", out["error"])
}

func TestHandleGuidance_MalformedJSON(t *testing.T) {
	w, out := serve(t, replying("unused"), http.MethodPost, "application/json", `{"onboarding_data": "test",`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, out["error"])
}

func TestHandleGuidance_ModelFailure(t *testing.T) {
	w, out := serve(t, failing(errors.New("LLM simulation error")), http.MethodPost, "application/json",
		`{"onboarding_data": {"user_story": "This will fail."}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An internal error occurred", out["error"])
	assert.Equal(t, "LLM simulation error", out["details"])
}

func TestHandleGuidance_OversizedBody(t *testing.T) {
	big := `{"onboarding_data": {"story": "` + strings.Repeat("a", maxBodyBytes) + `"}}`
	w, out := serve(t, replying("unused"), http.MethodPost, "application/json", big)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No data provided", out["error"])
}

func TestHandleGuidance_WrongMethod(t *testing.T) {
	w, _ := serve(t, replying("unused"), http.MethodGet, "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_Ping(t *testing.T) {
	router := NewRouter(NewHandler(NewService(replying("x"), discardLogger()), discardLogger()), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(NewHandler(NewService(replying("x"), discardLogger()), discardLogger()), nil)

	r := httptest.NewRequest(http.MethodOptions, "/api/guidance", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), discardLogger())
	}()

	cancel()
	assert.NoError(t, <-done)
}
