package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-backend/internal/apartment"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
	"github.com/nekogravitycat/rental-backend/internal/reservation/reservationtest"
)

type testEnv struct {
	router  *gin.Engine
	store   *reservationtest.Store
	aptID   string
	contact string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, request.RegisterValidators())

	store := reservationtest.NewStore()
	apt := store.AddApartment(apartment.Apartment{
		Title: "Casa Bauru", City: "Bauru", State: "SP",
		MaxGuests: 4, DailyRate: money.MustParse("150.00"),
	})
	ct := store.AddContact(reservationtest.Contact{Name: "Ana Souza", Email: "ana@example.com"})

	logger, _ := logtest.NewNullLogger()
	r := gin.New()
	r.Use(logging.RequestLogger(logger))
	passThrough := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/api"), NewHandler(reservation.NewService(store, store)), passThrough)

	return &testEnv{router: r, store: store, aptID: apt.ID, contact: ct.ID}
}

func (e *testEnv) post(body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, "/api/reservations", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (e *testEnv) booking(checkIn, checkOut string, guests int) gin.H {
	return gin.H{
		"apartment_id":  e.aptID,
		"contact_id":    e.contact,
		"checkin_date":  checkIn,
		"checkout_date": checkOut,
		"guests":        guests,
		"channel":       "direct",
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestCreateReservation(t *testing.T) {
	e := setup(t)

	w := e.post(e.booking("2024-07-01", "2024-07-04", 2))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total_price":450.00`)

	var created CreateReservationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, money.MustParse("450.00"), created.TotalPrice)

	t.Run("Overlap is a conflict", func(t *testing.T) {
		w := e.post(e.booking("2024-07-03", "2024-07-06", 2))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "apartment already booked for requested dates", errorMessage(t, w))
	})

	t.Run("Touching checkout is allowed", func(t *testing.T) {
		w := e.post(e.booking("2024-07-04", "2024-07-06", 2))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Capacity", func(t *testing.T) {
		w := e.post(e.booking("2024-08-01", "2024-08-03", 5))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "number of guests (5) exceeds apartment capacity (4)", errorMessage(t, w))
	})

	t.Run("Missing apartment", func(t *testing.T) {
		body := e.booking("2024-08-01", "2024-08-03", 1)
		body["apartment_id"] = "7d4f1c8e-0b6a-4a57-9d1e-5c2f3b6a7e90"
		w := e.post(body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing fields", func(t *testing.T) {
		w := e.post(gin.H{"apartment_id": e.aptID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Wrong JSON type", func(t *testing.T) {
		body := e.booking("2024-08-01", "2024-08-03", 1)
		body["guests"] = "two"
		w := e.post(body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateReservationConcurrent(t *testing.T) {
	e := setup(t)

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = e.post(e.booking("2024-09-01", "2024-09-08", 2)).Code
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes)
}

func TestListReservations(t *testing.T) {
	e := setup(t)

	w := e.get("/api/reservations")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	require.Equal(t, http.StatusCreated, e.post(e.booking("2024-07-01", "2024-07-04", 2)).Code)

	first := e.get("/api/reservations")
	second := e.get("/api/reservations")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	var items []ReservationResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "2024-07-01", items[0].CheckInDate)
	assert.Equal(t, "2024-07-04", items[0].CheckOutDate)
	assert.Equal(t, "Bauru", items[0].ApartmentCity)
	assert.Equal(t, "ana@example.com", items[0].ContactEmail)

	t.Run("Storage failure is opaque", func(t *testing.T) {
		e.store.Err = errors.New(`relation "reservations" does not exist`)
		defer func() { e.store.Err = nil }()

		w := e.get("/api/reservations")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
	})
}

func TestSearchReservations(t *testing.T) {
	e := setup(t)
	require.Equal(t, http.StatusCreated, e.post(e.booking("2024-08-01", "2024-08-05", 2)).Code)

	tests := []struct {
		name  string
		query string
		code  int
		count int
	}{
		{"Touching boundary", "startDate=2024-08-05&endDate=2024-08-10&city=Bauru", http.StatusOK, 0},
		{"Overlapping window", "startDate=2024-07-30&endDate=2024-08-02&city=Bauru", http.StatusOK, 1},
		{"Other city", "startDate=2024-07-30&endDate=2024-08-02&city=Santos", http.StatusOK, 0},
		{"Missing city", "startDate=2024-07-30&endDate=2024-08-02", http.StatusBadRequest, 0},
		{"Missing dates", "city=Bauru", http.StatusBadRequest, 0},
		{"Malformed date", "startDate=30/07/2024&endDate=2024-08-02&city=Bauru", http.StatusBadRequest, 0},
		{"End before start", "startDate=2024-08-10&endDate=2024-08-01&city=Bauru", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.get("/api/reservations/search?" + tt.query)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			var items []ReservationResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
			assert.Len(t, items, tt.count)
		})
	}
}
