package notify

import (
	"testing"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RestockAlert(t *testing.T) {
	renderer := testRenderer(t)

	text, err := renderer.RestockAlert(domain.Product{
		Name:         "Widget",
		Availability: domain.AvailabilityInStock,
		Link:         "https://shop.example/widget",
	})
	require.NoError(t, err)

	assert.Equal(t, "Widget is back in stock ✅\nLink: https://shop.example/widget", text)
}

func TestRenderer_ProductStatus(t *testing.T) {
	renderer := testRenderer(t)

	tests := []struct {
		name         string
		availability domain.Availability
		want         string
	}{
		{
			name:         "in stock",
			availability: domain.AvailabilityInStock,
			want:         "Product: Widget\nAvailability: ✅ In Stock\nLink: https://shop.example/widget",
		},
		{
			name:         "out of stock",
			availability: domain.AvailabilityOutOfStock,
			want:         "Product: Widget\nAvailability: ❌ Out Of Stock\nLink: https://shop.example/widget",
		},
		{
			name:         "unknown",
			availability: domain.AvailabilityUnknown,
			want:         "Product: Widget\nAvailability: ❔ Unknown\nLink: https://shop.example/widget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := renderer.ProductStatus(domain.Product{
				Name:         "Widget",
				Availability: tt.availability,
				Link:         "https://shop.example/widget",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}
