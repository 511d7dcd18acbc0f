// Package capacity owns restaurants, reservations and feedback and answers
// seat-capacity questions over the overlap window around a requested time.
//
// Restaurant lookups return the lowest-id match. Bookings go through
// BookIfAvailable, which checks capacity and inserts as one atomic step per
// restaurant, so concurrent sessions cannot jointly overbook a window.
package capacity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// OverlapWindow is the half-width of the interval, inclusive at both ends,
// whose reservations compete for seats with a requested time.
const OverlapWindow = time.Hour

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrInvalidReservation  = errors.New("invalid reservation")
)

type Store interface {
	FindRestaurant(ctx context.Context, q RestaurantQuery) (*Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (*Restaurant, error)
	OverlappingGuestCount(ctx context.Context, restaurantID int64, at TimeSlot) (int, error)
	AvailableCapacity(ctx context.Context, restaurantID int64, at TimeSlot) (int, error)

	// CreateReservation inserts without a capacity check.
	CreateReservation(ctx context.Context, in NewReservation) (*Reservation, error)
	// BookIfAvailable inserts only if overlapping guests plus in.Guests fit the
	// restaurant's seating capacity; otherwise it returns ErrCapacityExceeded
	// and leaves the store unchanged.
	BookIfAvailable(ctx context.Context, in NewReservation) (*Reservation, error)
	GetReservation(ctx context.Context, id int64) (*Reservation, error)
	FindReservation(ctx context.Context, contact string, restaurantID int64, at TimeSlot) (*Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error

	CreateFeedback(ctx context.Context, in NewFeedback) (*Feedback, error)
}

// Window returns the inclusive overlap bounds around at.
func Window(at TimeSlot) (time.Time, time.Time) {
	return at.Time.Add(-OverlapWindow), at.Time.Add(OverlapWindow)
}

func InWindow(at TimeSlot, t time.Time) bool {
	start, end := Window(at)
	t = t.UTC()
	return !t.Before(start) && !t.After(end)
}

func validateNewReservation(in NewReservation) error {
	switch {
	case strings.TrimSpace(in.UserName) == "":
		return errors.Join(ErrInvalidReservation, errors.New("user name is required"))
	case strings.TrimSpace(in.UserContact) == "":
		return errors.Join(ErrInvalidReservation, errors.New("user contact is required"))
	case in.RestaurantID <= 0:
		return errors.Join(ErrInvalidReservation, errors.New("restaurant id is required"))
	case in.Time.IsZero():
		return errors.Join(ErrInvalidReservation, errors.New("reservation time is required"))
	case in.Guests <= 0:
		return errors.Join(ErrInvalidReservation, errors.New("guests must be positive"))
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(strings.TrimSpace(s)) + "%"
}
