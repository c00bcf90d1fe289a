package guidance

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

// LambdaHandler serves the guidance endpoint behind an API Gateway proxy
// integration.
type LambdaHandler struct {
	svc            Service
	allowedOrigins []string
	logger         *slog.Logger
}

// NewLambdaHandler answers CORS the way NewRouter does: no origins or "*"
// allows any origin.
func NewLambdaHandler(svc Service, allowedOrigins []string, logger *slog.Logger) *LambdaHandler {
	return &LambdaHandler{svc: svc, allowedOrigins: allowedOrigins, logger: logger}
}

// Handle never returns a Go error: every outcome is a JSON response.
func (l *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod != "" && req.HTTPMethod != http.MethodPost {
		return l.respond(ctx, req, http.StatusMethodNotAllowed, onboarding.Response{Error: "Method not allowed"}), nil
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			l.logger.WarnContext(ctx, "[guidance] bad base64 body", slog.Any("error", err))
			status, resp := Render("", invalid(MsgNoData, err))
			return l.respond(ctx, req, status, resp), nil
		}
		body = decoded
	}

	if len(body) > maxBodyBytes {
		status, resp := Render("", invalid(MsgNoData, nil))
		return l.respond(ctx, req, status, resp), nil
	}

	text, err := l.svc.Produce(ctx, body)
	status, resp := Render(text, err)
	return l.respond(ctx, req, status, resp), nil
}

func (l *LambdaHandler) respond(ctx context.Context, req events.APIGatewayProxyRequest, status int, resp onboarding.Response) events.APIGatewayProxyResponse {
	b, err := json.Marshal(resp)
	if err != nil {
		l.logger.ErrorContext(ctx, "[guidance] serialize response", slog.Any("error", err))
		status = http.StatusInternalServerError
		b = []byte(`{"error":"` + MsgInternalFailure + `"}`)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if origin, ok := l.allowOrigin(header(req.Headers, "Origin")); ok {
		headers["Access-Control-Allow-Origin"] = origin
		if origin != "*" {
			headers["Vary"] = "Origin"
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(b),
	}
}

func (l *LambdaHandler) allowOrigin(origin string) (string, bool) {
	if len(l.allowedOrigins) == 0 {
		return "*", true
	}
	for _, o := range l.allowedOrigins {
		if o == "*" {
			return "*", true
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin, true
		}
	}
	return "", false
}

// header looks a name up case-insensitively; API Gateway passes headers as
// the client sent them.
func header(h map[string]string, name string) string {
	if v, ok := h[name]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
