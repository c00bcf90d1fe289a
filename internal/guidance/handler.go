package guidance

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

// maxBodyBytes caps how much of a request body is read.
const maxBodyBytes = 1 << 20

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// HandleGuidance serves POST /api/guidance.
func (h *Handler) HandleGuidance(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(r.Context(), "[guidance] unreadable body", slog.Any("error", err))
		status, resp := Render("", invalid(MsgNoData, err))
		writeJSON(w, status, resp)
		return
	}

	text, err := h.svc.Produce(r.Context(), body)
	status, resp := Render(text, err)
	writeJSON(w, status, resp)
}

func (h *Handler) HandlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func writeJSON(w http.ResponseWriter, status int, resp onboarding.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
