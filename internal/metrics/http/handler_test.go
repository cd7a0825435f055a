package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-backend/internal/apartment"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/metrics"
	"github.com/nekogravitycat/rental-backend/internal/pkg/cache"
	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
	"github.com/nekogravitycat/rental-backend/internal/reservation/reservationtest"
)

func setupRouter(store *reservationtest.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := logtest.NewNullLogger()
	r := gin.New()
	r.Use(logging.RequestLogger(logger))
	passThrough := func(c *gin.Context) { c.Next() }
	svc := metrics.NewService(store, cache.Noop{}, time.Minute)
	RegisterRoutes(r.Group("/api"), NewHandler(svc), passThrough)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestMetricsEndpoints(t *testing.T) {
	store := reservationtest.NewStore()
	r := setupRouter(store)

	w := get(r, "/api/metrics/channel-summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	apt := store.AddApartment(apartment.Apartment{Title: "Casa Bauru", City: "Bauru", State: "SP", MaxGuests: 4, DailyRate: 15000})
	store.Put(reservation.Reservation{ApartmentID: apt.ID, Channel: "airbnb", TotalPrice: money.MustParse("450.00"), CreatedAt: time.Now()})

	w = get(r, "/api/metrics/channel-summary?days=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"channel":"airbnb","total_reservations":1,"total_revenue":450.00}]`, w.Body.String())

	w = get(r, "/api/metrics/top-cities")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"city":"Bauru","total_reservations":1}]`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/metrics/channel-summary?days=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/metrics/channel-summary?days=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/metrics/top-cities?limit=1000").Code)
}
