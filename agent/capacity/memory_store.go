package capacity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a process-local Store used by the chat command and tests.
// A single mutex serialises all writes, which also makes BookIfAvailable atomic.
type MemoryStore struct {
	mu sync.RWMutex

	restaurants  map[int64]*Restaurant
	reservations map[int64]*Reservation
	feedback     map[int64]*Feedback

	nextRestaurantID  int64
	nextReservationID int64
	nextFeedbackID    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		restaurants:  make(map[int64]*Restaurant),
		reservations: make(map[int64]*Reservation),
		feedback:     make(map[int64]*Feedback),
	}
}

// AddRestaurant stores a copy of r, assigning an id when r.ID is zero.
func (s *MemoryStore) AddRestaurant(_ context.Context, r Restaurant) (*Restaurant, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, errors.New("restaurant name is required")
	}
	if r.SeatingCapacity <= 0 {
		return nil, fmt.Errorf("restaurant %q: seating capacity must be positive", r.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == 0 {
		s.nextRestaurantID++
		r.ID = s.nextRestaurantID
	} else if r.ID > s.nextRestaurantID {
		s.nextRestaurantID = r.ID
	}
	if _, exists := s.restaurants[r.ID]; exists {
		return nil, fmt.Errorf("restaurant id=%d already exists", r.ID)
	}
	r.Amenities = append(AmenitySet(nil), r.Amenities...)
	s.restaurants[r.ID] = &r
	out := r
	return &out, nil
}

func (s *MemoryStore) FindRestaurant(_ context.Context, q RestaurantQuery) (*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.sortedRestaurantIDs() {
		r := s.restaurants[id]
		if !containsFold(r.Location, q.Location) || !containsFold(r.Name, q.Name) {
			continue
		}
		if !r.Amenities.MatchesAll(q.Amenities) {
			continue
		}
		out := *r
		return &out, nil
	}
	return nil, ErrRestaurantNotFound
}

func (s *MemoryStore) GetRestaurant(_ context.Context, id int64) (*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	out := *r
	return &out, nil
}

func (s *MemoryStore) OverlappingGuestCount(_ context.Context, restaurantID int64, at TimeSlot) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlapping(restaurantID, at), nil
}

func (s *MemoryStore) AvailableCapacity(_ context.Context, restaurantID int64, at TimeSlot) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[restaurantID]
	if !ok {
		return 0, ErrRestaurantNotFound
	}
	return r.SeatingCapacity - s.overlapping(restaurantID, at), nil
}

func (s *MemoryStore) CreateReservation(_ context.Context, in NewReservation) (*Reservation, error) {
	if err := validateNewReservation(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.restaurants[in.RestaurantID]; !ok {
		return nil, ErrRestaurantNotFound
	}
	return s.insertReservation(in), nil
}

func (s *MemoryStore) BookIfAvailable(_ context.Context, in NewReservation) (*Reservation, error) {
	if err := validateNewReservation(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.restaurants[in.RestaurantID]
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	if s.overlapping(in.RestaurantID, in.Time)+in.Guests > r.SeatingCapacity {
		return nil, ErrCapacityExceeded
	}
	return s.insertReservation(in), nil
}

func (s *MemoryStore) GetReservation(_ context.Context, id int64) (*Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return s.withRestaurant(res), nil
}

func (s *MemoryStore) FindReservation(_ context.Context, contact string, restaurantID int64, at TimeSlot) (*Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.reservations))
	for id := range s.reservations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		res := s.reservations[id]
		if res.UserContact == contact && res.RestaurantID == restaurantID && res.ReservationTime.Equal(at.Time) {
			return s.withRestaurant(res), nil
		}
	}
	return nil, ErrReservationNotFound
}

func (s *MemoryStore) DeleteReservation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *MemoryStore) CreateFeedback(_ context.Context, in NewFeedback) (*Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[in.ReservationID]; !ok {
		return nil, ErrReservationNotFound
	}
	s.nextFeedbackID++
	fb := &Feedback{
		ID:            s.nextFeedbackID,
		ReservationID: in.ReservationID,
		Rating:        in.Rating,
		Comments:      in.Comments,
	}
	s.feedback[fb.ID] = fb
	out := *fb
	return &out, nil
}

// FeedbackFor lists feedback recorded against a reservation, oldest first.
func (s *MemoryStore) FeedbackFor(reservationID int64) []Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Feedback
	for _, fb := range s.feedback {
		if fb.ReservationID == reservationID {
			out = append(out, *fb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) ReservationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reservations)
}

// caller holds s.mu
func (s *MemoryStore) overlapping(restaurantID int64, at TimeSlot) int {
	total := 0
	for _, res := range s.reservations {
		if res.RestaurantID == restaurantID && InWindow(at, res.ReservationTime) {
			total += res.Guests
		}
	}
	return total
}

// caller holds s.mu for writing
func (s *MemoryStore) insertReservation(in NewReservation) *Reservation {
	s.nextReservationID++
	res := &Reservation{
		ID:              s.nextReservationID,
		UserName:        strings.TrimSpace(in.UserName),
		UserContact:     strings.TrimSpace(in.UserContact),
		RestaurantID:    in.RestaurantID,
		ReservationTime: in.Time.Time,
		Guests:          in.Guests,
	}
	s.reservations[res.ID] = res
	return s.withRestaurant(res)
}

func (s *MemoryStore) withRestaurant(res *Reservation) *Reservation {
	out := *res
	if r, ok := s.restaurants[res.RestaurantID]; ok {
		rc := *r
		out.Restaurant = &rc
	}
	return &out
}

func (s *MemoryStore) sortedRestaurantIDs() []int64 {
	ids := make([]int64, 0, len(s.restaurants))
	for id := range s.restaurants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}
