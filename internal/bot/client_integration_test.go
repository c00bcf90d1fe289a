package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Runs the client against a MockServer container standing in for the
// guidance service.
func TestClient_AgainstMockServer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mockserver/mockserver:5.15.0",
			ExposedPorts: []string{"1080/tcp"},
			WaitingFor: wait.ForHTTP("/mockserver/status").
				WithPort("1080/tcp").
				WithMethod(http.MethodPut).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	baseURL := "http://" + endpoint

	t.Run("success", func(t *testing.T) {
		resetMockServer(t, baseURL)
		expectGuidance(t, baseURL, 0)

		c := NewClient(baseURL, 5*time.Second, discardLogger())
		text, found, err := c.RequestGuidance(ctx, sampleData())
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Guidance from MockServer", text)
	})

	t.Run("bounded wait", func(t *testing.T) {
		resetMockServer(t, baseURL)
		expectGuidance(t, baseURL, 3000)

		c := NewClient(baseURL, 500*time.Millisecond, discardLogger())

		start := time.Now()
		_, _, err := c.RequestGuidance(ctx, sampleData())
		elapsed := time.Since(start)

		requireForwardError(t, err, KindTimeout)
		assert.Less(t, elapsed.Seconds(), 2.0, "client did not give up at its deadline")
	})
}

func expectGuidance(t *testing.T, baseURL string, delayMs int) {
	t.Helper()

	body := fmt.Sprintf(`{
		"httpRequest": {"method": "POST", "path": "/api/guidance"},
		"httpResponse": {
			"statusCode": 200,
			"headers": {"Content-Type": ["application/json"]},
			"body": "{\"guidance\": \"Guidance from MockServer\"}",
			"delay": {"timeUnit": "MILLISECONDS", "value": %d}
		}
	}`, delayMs)

	mockServerPut(t, baseURL+"/mockserver/expectation", body, http.StatusCreated)
}

func resetMockServer(t *testing.T, baseURL string) {
	t.Helper()
	mockServerPut(t, baseURL+"/mockserver/reset", "", http.StatusOK)
}

func mockServerPut(t *testing.T, url, body string, wantStatus int) {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to reach MockServer")
	defer resp.Body.Close()

	require.Equal(t, wantStatus, resp.StatusCode)
}
