package capacity

import (
	"time"

	"github.com/uptrace/bun"
)

type Restaurant struct {
	bun.BaseModel `bun:"table:restaurants,alias:r"`

	ID              int64      `bun:"id,pk,autoincrement" json:"id"`
	Name            string     `bun:"name,notnull" json:"name"`
	Location        string     `bun:"location,notnull" json:"location"`
	Cuisine         string     `bun:"cuisine,notnull" json:"cuisine"`
	SeatingCapacity int        `bun:"seating_capacity,notnull" json:"seating_capacity"`
	Rating          *float64   `bun:"rating,default:0" json:"rating,omitempty"`
	PriceForTwo     *float64   `bun:"price_for_two,default:0" json:"price_for_two,omitempty"`
	ContactNumber   string     `bun:"contact_number,notnull" json:"contact_number"`
	DailySpecials   *string    `bun:"daily_specials" json:"daily_specials,omitempty"`
	Amenities       AmenitySet `bun:"amenities,type:varchar" json:"amenities"`
}

func (r *Restaurant) Specials() string {
	if r == nil || r.DailySpecials == nil || *r.DailySpecials == "" {
		return NotAvailable
	}
	return *r.DailySpecials
}

type Reservation struct {
	bun.BaseModel `bun:"table:reservations,alias:res"`

	ID              int64       `bun:"id,pk,autoincrement" json:"id"`
	UserName        string      `bun:"user_name,notnull" json:"user_name"`
	UserContact     string      `bun:"user_contact,notnull" json:"user_contact"`
	RestaurantID    int64       `bun:"restaurant_id,notnull" json:"restaurant_id"`
	ReservationTime time.Time   `bun:"reservation_time,notnull,type:timestamp" json:"reservation_time"`
	Guests          int         `bun:"guests,notnull" json:"guests"`
	Restaurant      *Restaurant `bun:"rel:belongs-to,join:restaurant_id=id" json:"-"`
}

func (r *Reservation) Slot() TimeSlot {
	return SlotAt(r.ReservationTime)
}

type Feedback struct {
	bun.BaseModel `bun:"table:feedback,alias:fb"`

	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	ReservationID int64        `bun:"reservation_id,notnull" json:"reservation_id"`
	Rating        *float64     `bun:"rating" json:"rating,omitempty"`
	Comments      *string      `bun:"comments" json:"comments,omitempty"`
	Reservation   *Reservation `bun:"rel:belongs-to,join:reservation_id=id" json:"-"`
}

// NewReservation carries the caller-supplied fields of a booking.
type NewReservation struct {
	UserName     string
	UserContact  string
	RestaurantID int64
	Time         TimeSlot
	Guests       int
}

type NewFeedback struct {
	ReservationID int64
	Rating        *float64
	Comments      *string
}

// RestaurantQuery selects a restaurant. Empty fields do not constrain.
type RestaurantQuery struct {
	Location  string
	Name      string
	Amenities []string
}
