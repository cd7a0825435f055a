package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-backend/internal/db"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/pkg/cache"
)

var (
	testRouter *gin.Engine
	testPool   *pgxpool.Pool
)

// TestMain builds the full application against TEST_DB_DSN. Without it the
// end-to-end tests in this package are skipped.
func TestMain(m *testing.M) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	testPool, err = db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("unable to connect to database: %v", err)
	}
	if err := db.Migrate(ctx, testPool); err != nil {
		log.Fatalf("unable to migrate database: %v", err)
	}

	gin.SetMode(gin.TestMode)

	container, err := NewContainer(Config{
		DBPool:          testPool,
		JWTSecret:       "test-secret",
		JWTTTL:          30 * time.Minute,
		BcryptCost:      4, // Lower cost for testing purposes
		Logger:          logging.NewWithWriter(io.Discard, "info", false),
		Cache:           cache.Noop{},
		MetricsCacheTTL: time.Minute,
	})
	if err != nil {
		log.Fatalf("unable to build container: %v", err)
	}
	testRouter = container.Router

	exitCode := m.Run()

	testPool.Close()
	os.Exit(exitCode)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DB_DSN not set")
	}
}

func clearTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		"TRUNCATE TABLE public.reservations, public.apartments, public.contacts, public.users CASCADE")
	require.NoError(t, err)
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func login(t *testing.T) string {
	t.Helper()
	creds := gin.H{"username": "operator", "password": "secret1"}

	w := executeRequest(http.MethodPost, "/api/auth/register", creds, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = executeRequest(http.MethodPost, "/api/auth/login", creds, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decode[struct {
		AccessToken string `json:"access_token"`
	}](t, w).AccessToken
}

type idResponse struct {
	ID string `json:"id"`
}

func TestBookingFlow(t *testing.T) {
	requireDB(t)
	clearTables(t)
	token := login(t)

	w := executeRequest(http.MethodPost, "/api/apartments", gin.H{
		"title": "Apto Aconchegante Centro", "city": "Bauru", "state": "SP",
		"max_guests": 4, "daily_rate": 150.00,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	aptID := decode[idResponse](t, w).ID

	w = executeRequest(http.MethodPost, "/api/contacts", gin.H{
		"name": "Ana Costa", "email": "ana.costa@example.com", "type": "individual",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contactID := decode[idResponse](t, w).ID

	booking := func(checkIn, checkOut string, guests int) gin.H {
		return gin.H{
			"apartment_id": aptID, "contact_id": contactID,
			"checkin_date": checkIn, "checkout_date": checkOut,
			"guests": guests, "channel": "airbnb",
		}
	}

	t.Run("Create prices the stay", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/api/reservations", booking("2024-07-01", "2024-07-04", 2), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"total_price":450.00`)
	})

	t.Run("Overlap is rejected", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/api/reservations", booking("2024-07-03", "2024-07-05", 2), token)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Checkout day is free", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/api/reservations", booking("2024-07-04", "2024-07-06", 2), token)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Capacity", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/api/reservations", booking("2024-08-01", "2024-08-02", 5), token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "(5)")
		assert.Contains(t, w.Body.String(), "(4)")
	})

	t.Run("Unknown contact", func(t *testing.T) {
		body := booking("2024-08-01", "2024-08-02", 1)
		body["contact_id"] = "7d4f1c8e-0b6a-4a57-9d1e-5c2f3b6a7e90"
		w := executeRequest(http.MethodPost, "/api/reservations", body, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Concurrent bookings", func(t *testing.T) {
		codes := make([]int, 4)
		var wg sync.WaitGroup
		for i := range codes {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				codes[i] = executeRequest(http.MethodPost, "/api/reservations", booking("2024-12-20", "2024-12-27", 2), token).Code
			}(i)
		}
		wg.Wait()
		assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict, http.StatusConflict, http.StatusConflict}, codes)
	})

	t.Run("List and search", func(t *testing.T) {
		first := executeRequest(http.MethodGet, "/api/reservations", nil, token)
		second := executeRequest(http.MethodGet, "/api/reservations", nil, token)
		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Len(t, decode[[]map[string]any](t, first), 3)

		w := executeRequest(http.MethodGet, "/api/reservations/search?startDate=2024-07-06&endDate=2024-07-10&city=Bauru", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]map[string]any](t, w))

		w = executeRequest(http.MethodGet, "/api/reservations/search?startDate=2024-06-30&endDate=2024-07-02&city=Bauru", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]map[string]any](t, w), 1)
	})

	t.Run("Metrics", func(t *testing.T) {
		w := executeRequest(http.MethodGet, "/api/metrics/channel-summary", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_revenue":1800.00`)

		w = executeRequest(http.MethodGet, "/api/metrics/top-cities?limit=1", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"city":"Bauru","total_reservations":3}]`, w.Body.String())
	})
}
