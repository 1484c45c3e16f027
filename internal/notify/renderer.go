package notify

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer renders chat messages from templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer creates a new renderer and loads all templates.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"title":             titleCase,
		"availabilityText":  availabilityText,
		"availabilityEmoji": availabilityEmoji,
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
	}

	names := []string{"restock_alert", "product_status"}
	for _, name := range names {
		content, err := templatesFS.ReadFile(fmt.Sprintf("templates/%s.tmpl", name))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}

		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return r, nil
}

// RestockAlert renders the back-in-stock alert for a product.
func (r *Renderer) RestockAlert(p domain.Product) (string, error) {
	return r.render("restock_alert", p)
}

// ProductStatus renders one product row for the product list.
func (r *Renderer) ProductStatus(p domain.Product) (string, error) {
	return r.render("product_status", p)
}

func (r *Renderer) render(name string, p domain.Product) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// Template functions

var titleCaser = cases.Title(language.English)

func titleCase(s string) string {
	return titleCaser.String(s)
}

func availabilityText(a domain.Availability) string {
	switch a {
	case domain.AvailabilityInStock:
		return "in stock"
	case domain.AvailabilityOutOfStock:
		return "out of stock"
	default:
		return "unknown"
	}
}

func availabilityEmoji(a domain.Availability) string {
	switch a {
	case domain.AvailabilityInStock:
		return "✅"
	case domain.AvailabilityOutOfStock:
		return "❌"
	default:
		return "❔"
	}
}
