package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_FetchCurrentProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name": "Widget", "available": true, "link": "https://shop.example/widget"},
			{"name": "Gadget", "available": false, "link": "https://shop.example/gadget"},
			{"name": "Gizmo", "available": null, "link": "https://shop.example/gizmo"}
		]`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL, 5*time.Second)
	products, err := fetcher.FetchCurrentProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Product{
		{Name: "Widget", Availability: domain.AvailabilityInStock, Link: "https://shop.example/widget"},
		{Name: "Gadget", Availability: domain.AvailabilityOutOfStock, Link: "https://shop.example/gadget"},
		{Name: "Gizmo", Availability: domain.AvailabilityUnknown, Link: "https://shop.example/gizmo"},
	}, products)
}

func TestHTTPFetcher_EmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL, 5*time.Second)
	products, err := fetcher.FetchCurrentProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestHTTPFetcher_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL, 5*time.Second)
	_, err := fetcher.FetchCurrentProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestHTTPFetcher_MalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL, 5*time.Second)
	_, err := fetcher.FetchCurrentProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog feed")
}
