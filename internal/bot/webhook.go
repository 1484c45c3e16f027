package bot

import (
	"encoding/json"
	"net/http"

	"github.com/dkotenko/stock-sentry/internal/pkg/ctxlog"
	"github.com/dkotenko/stock-sentry/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// secretTokenHeader carries the webhook secret Telegram echoes back on
// every delivery.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler receives Telegram webhook deliveries and feeds them to
// the router.
type WebhookHandler struct {
	router *Router
	secret string
}

// NewWebhookHandler creates a new webhook handler. An empty secret
// disables the header check (local runs only).
func NewWebhookHandler(router *Router, secret string) *WebhookHandler {
	return &WebhookHandler{router: router, secret: secret}
}

// RegisterRoutes registers the webhook route.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/telegram/webhook", h.Handle)
}

// Handle processes one webhook delivery. Malformed payloads are logged and
// acknowledged with 200 anyway; a non-2xx answer would only make Telegram
// redeliver the same broken update.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretTokenHeader) != h.secret {
		httputil.Text(w, http.StatusUnauthorized, "invalid secret token")
		return
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		ctxlog.FromContext(r.Context()).Warn("malformed webhook payload", "error", err)
		httputil.Text(w, http.StatusOK, "OK")
		return
	}

	h.router.HandleUpdate(r.Context(), upd)

	httputil.Text(w, http.StatusOK, "OK")
}
