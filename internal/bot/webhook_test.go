package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookServer(t *testing.T, secret string) (*httptest.Server, *routerFixture) {
	t.Helper()

	f := newRouterFixture(t)
	handler := NewWebhookHandler(f.router, secret)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, f
}

func postUpdate(t *testing.T, url, secret, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url+"/telegram/webhook", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(secretTokenHeader, secret)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestWebhook_DispatchesUpdate(t *testing.T) {
	server, f := newWebhookServer(t, "hook-secret")

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42},"text":"/subscribe"}}`
	resp := postUpdate(t, server.URL, "hook-secret", body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, f.sender.texts[42], 1)
	assert.Contains(t, f.sender.texts[42][0], "@shopadmin")
}

func TestWebhook_RejectsBadSecret(t *testing.T) {
	server, f := newWebhookServer(t, "hook-secret")

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42},"text":"/subscribe"}}`
	resp := postUpdate(t, server.URL, "wrong-secret", body)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, f.sender.texts)
}

func TestWebhook_EmptySecretSkipsCheck(t *testing.T) {
	server, f := newWebhookServer(t, "")

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42},"text":"/subscribe"}}`
	resp := postUpdate(t, server.URL, "", body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, f.sender.texts[42], 1)
}

func TestWebhook_MalformedPayloadStillAcknowledged(t *testing.T) {
	server, f := newWebhookServer(t, "hook-secret")

	resp := postUpdate(t, server.URL, "hook-secret", "{not json")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, f.sender.texts)
}

func TestWebhook_UpdateWithoutMessageIsNoOp(t *testing.T) {
	server, f := newWebhookServer(t, "hook-secret")

	resp := postUpdate(t, server.URL, "hook-secret", `{"update_id":7}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, f.sender.texts)
}
