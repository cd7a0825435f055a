// Package reservationtest provides an in-memory booking store for tests.
// It mirrors the PostgreSQL repository: bookings of one apartment are
// serialized, foreign keys are checked on insert, overlapping inserts fail
// like the exclusion constraint, and a failed booking leaves no trace.
package reservationtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/rental-backend/internal/apartment"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
)

// Store implements reservation.Repository and reservation.ApartmentLookup.
type Store struct {
	mu           sync.Mutex
	apartments   map[string]apartment.Apartment
	contacts     map[string]Contact
	reservations []reservation.Reservation
	locks        map[string]*sync.Mutex
	now          time.Time

	// Err, when set, is returned by every storage call.
	Err error
	// BeforeInsert runs inside Book right before a row is written.
	BeforeInsert func()
}

// Contact is the slice of contact data the joined list queries need.
type Contact struct {
	ID    string
	Name  string
	Email string
}

func NewStore() *Store {
	return &Store{
		apartments: map[string]apartment.Apartment{},
		contacts:   map[string]Contact{},
		locks:      map[string]*sync.Mutex{},
		now:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// AddApartment stores a, assigning an id when it has none.
func (s *Store) AddApartment(a apartment.Apartment) apartment.Apartment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.apartments[a.ID] = a
	return a
}

func (s *Store) AddContact(c Contact) Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.contacts[c.ID] = c
	return c
}

func (s *Store) RemoveContact(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contacts, id)
}

// Count returns the number of stored reservations.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

// Put stores r directly, bypassing every check. CreatedAt defaults to the
// store's clock.
func (s *Store) Put(r reservation.Reservation) reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.tick()
	}
	s.reservations = append(s.reservations, r)
	return r
}

func (s *Store) GetByID(_ context.Context, id string) (*apartment.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.apartments[id]
	if !ok {
		return nil, apartment.ErrNotFound
	}
	return &a, nil
}

func (s *Store) List(_ context.Context) ([]*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := s.joined(func(reservation.Reservation) bool { return true })
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) Search(_ context.Context, filter reservation.SearchFilter) ([]*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	window := reservation.DateRange{Start: filter.Start, End: filter.End}
	out := s.joined(func(r reservation.Reservation) bool {
		return s.apartments[r.ApartmentID].City == filter.City &&
			reservation.Overlaps(reservation.DateRange{Start: r.CheckIn, End: r.CheckOut}, window)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) HasConflict(_ context.Context, apartmentID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.conflicts(apartmentID, checkIn, checkOut, excludeReservationID), nil
}

func (s *Store) Book(ctx context.Context, apartmentID string, fn func(ctx context.Context, tx reservation.Tx) error) error {
	s.mu.Lock()
	if s.Err != nil {
		s.mu.Unlock()
		return s.Err
	}
	if _, ok := s.apartments[apartmentID]; !ok {
		s.mu.Unlock()
		return reservation.ErrApartmentNotFound
	}
	lock, ok := s.locks[apartmentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[apartmentID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	tx := &memTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = append(s.reservations, tx.pending...)
	return nil
}

func (s *Store) ChannelSummary(_ context.Context, since time.Time) ([]reservation.ChannelSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	byChannel := map[string]*reservation.ChannelSummary{}
	for _, r := range s.reservations {
		if r.CreatedAt.Before(since) {
			continue
		}
		cs, ok := byChannel[r.Channel]
		if !ok {
			cs = &reservation.ChannelSummary{Channel: r.Channel}
			byChannel[r.Channel] = cs
		}
		cs.Count++
		cs.Revenue += r.TotalPrice
	}

	out := make([]reservation.ChannelSummary, 0, len(byChannel))
	for _, cs := range byChannel {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	return out, nil
}

func (s *Store) TopCities(_ context.Context, limit int) ([]reservation.CityCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	counts := map[string]int{}
	for _, r := range s.reservations {
		counts[s.apartments[r.ApartmentID].City]++
	}

	out := make([]reservation.CityCount, 0, len(counts))
	for city, n := range counts {
		out = append(out, reservation.CityCount{City: city, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].City < out[j].City
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// tick returns a strictly increasing creation time. Callers hold s.mu.
func (s *Store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *Store) conflicts(apartmentID string, checkIn, checkOut time.Time, excludeID string) bool {
	want := reservation.DateRange{Start: checkIn, End: checkOut}
	for _, r := range s.reservations {
		if r.ApartmentID != apartmentID || r.ID == excludeID {
			continue
		}
		if reservation.Overlaps(reservation.DateRange{Start: r.CheckIn, End: r.CheckOut}, want) {
			return true
		}
	}
	return false
}

func (s *Store) joined(keep func(reservation.Reservation) bool) []*reservation.Reservation {
	out := make([]*reservation.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if !keep(r) {
			continue
		}
		a := s.apartments[r.ApartmentID]
		c := s.contacts[r.ContactID]
		r.ApartmentTitle, r.ApartmentCity, r.ApartmentState = a.Title, a.City, a.State
		r.ContactName, r.ContactEmail = c.Name, c.Email
		out = append(out, &r)
	}
	return out
}

type memTx struct {
	store   *Store
	pending []reservation.Reservation
}

func (t *memTx) HasConflict(_ context.Context, apartmentID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.Err != nil {
		return false, t.store.Err
	}
	return t.store.conflicts(apartmentID, checkIn, checkOut, excludeReservationID), nil
}

func (t *memTx) ContactExists(_ context.Context, contactID string) (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.Err != nil {
		return false, t.store.Err
	}
	_, ok := t.store.contacts[contactID]
	return ok, nil
}

func (t *memTx) Insert(_ context.Context, r *reservation.Reservation) error {
	if t.store.BeforeInsert != nil {
		t.store.BeforeInsert()
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.Err != nil {
		return t.store.Err
	}
	if _, ok := t.store.apartments[r.ApartmentID]; !ok {
		return reservation.ErrInvalidReference
	}
	if _, ok := t.store.contacts[r.ContactID]; !ok {
		return reservation.ErrInvalidReference
	}
	if t.store.conflicts(r.ApartmentID, r.CheckIn, r.CheckOut, "") {
		return reservation.ErrDateConflict
	}

	r.ID = uuid.NewString()
	r.CreatedAt = t.store.tick()
	t.pending = append(t.pending, *r)
	return nil
}

var (
	_ reservation.Repository      = (*Store)(nil)
	_ reservation.ApartmentLookup = (*Store)(nil)
)
