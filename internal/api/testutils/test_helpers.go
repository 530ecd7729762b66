package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/ledgercore/accounting-server/internal/api"
	"github.com/ledgercore/accounting-server/internal/config"
	"github.com/ledgercore/accounting-server/internal/migrate"
	"github.com/ledgercore/accounting-server/internal/repository"
	"github.com/ledgercore/accounting-server/internal/service"
	"github.com/ledgercore/accounting-server/internal/utils"
	"github.com/stretchr/testify/require"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router     *gin.Engine
	Repository *repository.SQLiteRepository
	Service    service.Service
	DB         *sqlx.DB
}

// SetupTestContext creates a new test context with a migrated throwaway
// database and the full router wired.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	// Load configuration from environment
	cfg := config.LoadConfig()

	// Override with test-specific config
	if cfg.Database.TestPath != "" {
		cfg.Database.Path = cfg.Database.TestPath
	} else {
		cfg.Database.Path = filepath.Join(t.TempDir(), "api_test.db")
	}

	// Set up database and bring the schema current
	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to set up test database")

	_, err = migrate.ApplyPending(context.Background(), db, migrate.Registered())
	require.NoError(t, err, "Failed to migrate test database")

	// Create repository
	repo := repository.NewSQLiteRepository(db)

	// Create service
	svc := service.NewDefaultService(repo)

	// Create API handler
	handler := api.NewHandler(svc, utils.NewLogger())

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.RequestIDMiddleware())

	// Set up routes
	handler.SetupRoutes(router)

	return &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		DB:         db,
	}
}

// CleanupTestContext releases the test context's resources
func CleanupTestContext(testCtx *TestContext) {
	if testCtx.DB != nil {
		testCtx.DB.Close()
	}
}

// PerformRequest executes a request against the router and returns the
// recorded response.
func PerformRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeResponse unmarshals the recorded body into out.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
