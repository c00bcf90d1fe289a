package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

// DefaultTimeout bounds one forwarding call.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 1 << 20

// Client posts onboarding payloads to the guidance service.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/guidance",
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) RequestGuidance(ctx context.Context, data onboarding.Data) (string, bool, error) {
	b, err := json.Marshal(onboarding.Request{OnboardingData: data})
	if err != nil {
		return "", false, &ForwardError{Kind: KindConnection, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return "", false, &ForwardError{Kind: KindConnection, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.InfoContext(ctx, "[bot] sending data to guidance service",
		slog.String("endpoint", c.endpoint),
		slog.String("payload", string(b)),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", false, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, &ForwardError{Kind: KindStatus, Status: resp.StatusCode, Body: string(raw)}
	}

	var out struct {
		Guidance *string `json:"guidance"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false, &ForwardError{Kind: KindDecode, Body: string(raw), Err: err}
	}

	if out.Guidance == nil {
		return "", false, nil
	}
	return *out.Guidance, true, nil
}
