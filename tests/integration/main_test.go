//go:build integration

package integration

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dkotenko/stock-sentry/internal/app"
	"github.com/dkotenko/stock-sentry/internal/config"
	"github.com/dkotenko/stock-sentry/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

const testAdminID int64 = 99

var (
	testServer *httptest.Server
	testDB     *pgxpool.Pool
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := testutil.NewPostgresContainer(ctx)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	// A stub catalog endpoint. The watcher interval below is long enough
	// that no cycle runs during the suite; the stub just keeps the
	// fetcher pointed at something real.
	catalogStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer catalogStub.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         "0",
			MetricsPort:  "0",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: config.DatabaseConfig{
			URL:             pgContainer.ConnectionString,
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 3,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "text",
		},
		Telegram: config.TelegramConfig{
			Enabled:       false,
			AdminID:       testAdminID,
			AdminContact:  "@testadmin",
			WebhookSecret: "test-webhook-secret",
		},
		Watcher: config.WatcherConfig{
			Interval:    time.Hour,
			CatalogURL:  catalogStub.URL,
			HTTPTimeout: 5 * time.Second,
		},
		Sweeper: config.SweeperConfig{
			Interval: time.Hour,
		},
		Notify: config.NotifyConfig{
			NumWorkers: 2,
		},
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("create app: %v", err)
	}

	// Direct DB connection for store-level tests
	testDB, err = pgxpool.New(ctx, pgContainer.ConnectionString)
	if err != nil {
		log.Fatalf("create test db pool: %v", err)
	}

	testServer = httptest.NewServer(application.Router())

	code := m.Run()

	testServer.Close()
	testDB.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown app: %v", err)
	}

	os.Exit(code)
}

// truncateAll clears the mutable tables between tests.
func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(), "TRUNCATE users, tokens, products")
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
