package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
)

// HTTPFetcher fetches the product feed over HTTP. The feed is a JSON array
// of products; availability is nullable when the source does not report it.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given feed URL.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type feedProduct struct {
	Name      string `json:"name"`
	Available *bool  `json:"available"`
	Link      string `json:"link"`
}

// FetchCurrentProducts downloads and decodes the current product list,
// preserving feed order.
func (f *HTTPFetcher) FetchCurrentProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var feed []feedProduct
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode catalog feed: %w", err)
	}

	products := make([]domain.Product, 0, len(feed))
	for _, p := range feed {
		products = append(products, domain.Product{
			Name:         p.Name,
			Availability: domain.AvailabilityFromBool(p.Available),
			Link:         p.Link,
		})
	}

	return products, nil
}
