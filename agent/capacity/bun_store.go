package capacity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var _ Store = (*BunStore)(nil)

// BunStore is the Postgres-backed Store. Each call runs on its own pooled
// connection (or transaction) and releases it before returning.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) (*BunStore, error) {
	if db == nil {
		return nil, errors.New("capacity: bun db is required")
	}
	return &BunStore{db: db}, nil
}

func (s *BunStore) FindRestaurant(ctx context.Context, q RestaurantQuery) (*Restaurant, error) {
	r := new(Restaurant)
	if err := restaurantQuery(s.db, r, q).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("capacity: find restaurant: %w", err)
	}
	return r, nil
}

func (s *BunStore) GetRestaurant(ctx context.Context, id int64) (*Restaurant, error) {
	return getRestaurant(ctx, s.db, id, false)
}

func (s *BunStore) OverlappingGuestCount(ctx context.Context, restaurantID int64, at TimeSlot) (int, error) {
	return overlappingGuests(ctx, s.db, restaurantID, at)
}

func (s *BunStore) AvailableCapacity(ctx context.Context, restaurantID int64, at TimeSlot) (int, error) {
	r, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	booked, err := s.OverlappingGuestCount(ctx, restaurantID, at)
	if err != nil {
		return 0, err
	}
	return r.SeatingCapacity - booked, nil
}

func (s *BunStore) CreateReservation(ctx context.Context, in NewReservation) (*Reservation, error) {
	if err := validateNewReservation(in); err != nil {
		return nil, err
	}
	return insertReservation(ctx, s.db, in)
}

// BookIfAvailable locks the restaurant row for the length of the transaction,
// so concurrent bookings for one restaurant are checked one after another.
func (s *BunStore) BookIfAvailable(ctx context.Context, in NewReservation) (*Reservation, error) {
	if err := validateNewReservation(in); err != nil {
		return nil, err
	}

	var booked *Reservation
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		r, err := getRestaurant(ctx, tx, in.RestaurantID, true)
		if err != nil {
			return err
		}
		overlapping, err := overlappingGuests(ctx, tx, in.RestaurantID, in.Time)
		if err != nil {
			return err
		}
		if overlapping+in.Guests > r.SeatingCapacity {
			return ErrCapacityExceeded
		}
		booked, err = insertReservation(ctx, tx, in)
		if err != nil {
			return err
		}
		booked.Restaurant = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booked, nil
}

func (s *BunStore) GetReservation(ctx context.Context, id int64) (*Reservation, error) {
	res := new(Reservation)
	err := s.db.NewSelect().
		Model(res).
		Relation("Restaurant").
		Where("res.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("capacity: get reservation: %w", err)
	}
	return res, nil
}

func (s *BunStore) FindReservation(ctx context.Context, contact string, restaurantID int64, at TimeSlot) (*Reservation, error) {
	res := new(Reservation)
	err := s.db.NewSelect().
		Model(res).
		Relation("Restaurant").
		Where("res.user_contact = ?", strings.TrimSpace(contact)).
		Where("res.restaurant_id = ?", restaurantID).
		Where("res.reservation_time = ?", at.Time).
		OrderExpr("res.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("capacity: find reservation: %w", err)
	}
	return res, nil
}

func (s *BunStore) DeleteReservation(ctx context.Context, id int64) error {
	result, err := s.db.NewDelete().
		Model((*Reservation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("capacity: delete reservation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("capacity: delete reservation: %w", err)
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (s *BunStore) CreateFeedback(ctx context.Context, in NewFeedback) (*Feedback, error) {
	exists, err := s.db.NewSelect().
		Model((*Reservation)(nil)).
		Where("id = ?", in.ReservationID).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("capacity: check reservation: %w", err)
	}
	if !exists {
		return nil, ErrReservationNotFound
	}

	fb := &Feedback{
		ReservationID: in.ReservationID,
		Rating:        in.Rating,
		Comments:      in.Comments,
	}
	if _, err := s.db.NewInsert().Model(fb).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("capacity: insert feedback: %w", err)
	}
	return fb, nil
}

func restaurantQuery(db bun.IDB, dest *Restaurant, q RestaurantQuery) *bun.SelectQuery {
	sel := db.NewSelect().Model(dest)
	if loc := strings.TrimSpace(q.Location); loc != "" {
		sel = sel.Where("r.location ILIKE ?", containsPattern(loc))
	}
	if name := strings.TrimSpace(q.Name); name != "" {
		sel = sel.Where("r.name ILIKE ?", containsPattern(name))
	}
	for _, amenity := range q.Amenities {
		if strings.TrimSpace(amenity) == "" {
			continue
		}
		sel = sel.Where("r.amenities ILIKE ?", containsPattern(amenity))
	}
	return sel.OrderExpr("r.id ASC").Limit(1)
}

func getRestaurant(ctx context.Context, db bun.IDB, id int64, forUpdate bool) (*Restaurant, error) {
	r := new(Restaurant)
	q := db.NewSelect().Model(r).Where("r.id = ?", id)
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("capacity: get restaurant: %w", err)
	}
	return r, nil
}

func overlappingQuery(db bun.IDB, restaurantID int64, at TimeSlot) *bun.SelectQuery {
	start, end := Window(at)
	return db.NewSelect().
		Model((*Reservation)(nil)).
		ColumnExpr("COALESCE(SUM(res.guests), 0)").
		Where("res.restaurant_id = ?", restaurantID).
		Where("res.reservation_time >= ?", start).
		Where("res.reservation_time <= ?", end)
}

func overlappingGuests(ctx context.Context, db bun.IDB, restaurantID int64, at TimeSlot) (int, error) {
	var total int
	if err := overlappingQuery(db, restaurantID, at).Scan(ctx, &total); err != nil {
		return 0, fmt.Errorf("capacity: sum overlapping guests: %w", err)
	}
	return total, nil
}

func insertReservation(ctx context.Context, db bun.IDB, in NewReservation) (*Reservation, error) {
	res := &Reservation{
		UserName:        strings.TrimSpace(in.UserName),
		UserContact:     strings.TrimSpace(in.UserContact),
		RestaurantID:    in.RestaurantID,
		ReservationTime: in.Time.Time,
		Guests:          in.Guests,
	}
	if _, err := db.NewInsert().Model(res).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("capacity: insert reservation: %w", err)
	}
	return res, nil
}
