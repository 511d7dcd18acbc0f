package tool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/capacity"
)

const (
	ToolCheckAvailability = "check_availability"
	ToolMakeReservation   = "make_reservation"
	ToolCancelReservation = "cancel_reservation"
	ToolSubmitFeedback    = "submit_feedback"
)

// fallbackSlots is how many later hourly slots are offered when the requested
// one is full. They are not re-checked.
const fallbackSlots = 3

const (
	msgRestaurantNotFound  = "No restaurant found named '%s'."
	msgSlotFull            = "Selected time slot is full. Please try a different time."
	msgConfirmed           = "Reservation confirmed at %s!"
	msgReservationNotFound = "No reservation found with ID %d."
	msgNoMatch             = "No matching reservation found with the given details."
	msgNeedIdentifiers     = "Please provide either reservation ID or (contact, restaurant, and datetime)."
	msgCanceled            = "Reservation successfully canceled for %s at %s."
	msgFeedbackThanks      = "Thank you for your feedback! It has been recorded successfully."
	msgBadDateTime         = "I couldn't understand the date and time '%s'. Please use a format like 2025-05-15T19:30."
	msgBadGuests           = "The number of guests must be at least 1."
	msgMissingLocation     = "Please tell me the city or area where you would like to dine."
	msgMissingDetails      = "Please provide your name, contact number, restaurant, date and time, and number of guests."
)

type Config struct {
	CurrencySymbol string `envconfig:"CURRENCY_SYMBOL" default:"₹"`
}

// Reservations implements the four reservation tools on top of a capacity store.
type Reservations struct {
	store    capacity.Store
	currency string
}

func NewReservations(store capacity.Store, cfg Config) (*Reservations, error) {
	if store == nil {
		return nil, errors.New("capacity store is required")
	}
	currency := cfg.CurrencySymbol
	if currency == "" {
		currency = capacity.DefaultCurrencySign
	}
	return &Reservations{store: store, currency: currency}, nil
}

// NewReservationRegistry returns a Registry exposing every reservation tool.
func NewReservationRegistry(store capacity.Store, cfg Config) (*Registry, error) {
	svc, err := NewReservations(store, cfg)
	if err != nil {
		return nil, err
	}
	return NewRegistry(svc.Definitions()...)
}

func (s *Reservations) Definitions() []Definition {
	return []Definition{
		Define(ToolCheckAvailability,
			"Checks the availability of restaurants based on the location, date and time, number of guests, and optional preferences.",
			map[string]*schema.ParameterInfo{
				"location":  {Type: schema.String, Desc: "City or area name where the user wants to dine.", Required: true},
				"date_time": {Type: schema.String, Desc: "Desired reservation time in ISO format (e.g., '2025-05-15T19:30').", Required: true},
				"guests":    {Type: schema.Integer, Desc: "Number of guests for the reservation.", Required: true},
				"preferences": {
					Type:     schema.Array,
					Desc:     "User preferences like 'rooftop', 'vegan', 'live music'.",
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
				},
				"restaurant": {Type: schema.String, Desc: "Specific restaurant name if the user has already selected one."},
			},
			decodeAvailability, s.CheckAvailability),
		Define(ToolMakeReservation,
			"Books a reservation if availability exists.",
			map[string]*schema.ParameterInfo{
				"user_name":       {Type: schema.String, Desc: "Name of the user making the reservation.", Required: true},
				"user_contact":    {Type: schema.String, Desc: "Contact number of the user.", Required: true},
				"restaurant_name": {Type: schema.String, Desc: "Name of the restaurant.", Required: true},
				"date_time":       {Type: schema.String, Desc: "Reservation datetime in ISO format.", Required: true},
				"guests":          {Type: schema.Integer, Desc: "Number of guests.", Required: true},
			},
			decodeReservation, s.MakeReservation),
		Define(ToolCancelReservation,
			"Cancels a reservation by reservation ID or by contact + restaurant + datetime.",
			map[string]*schema.ParameterInfo{
				"reservation_id":  {Type: schema.Integer, Desc: "Unique ID of the reservation to cancel."},
				"user_contact":    {Type: schema.String, Desc: "Contact number of the user."},
				"restaurant_name": {Type: schema.String, Desc: "Name of the restaurant."},
				"date_time":       {Type: schema.String, Desc: "Reservation datetime in ISO format."},
			},
			decodeCancellation, s.CancelReservation),
		Define(ToolSubmitFeedback,
			"Records user feedback for a specific reservation.",
			map[string]*schema.ParameterInfo{
				"reservation_id": {Type: schema.Integer, Desc: "ID of the reservation the feedback is linked to.", Required: true},
				"rating":         {Type: schema.Number, Desc: "User rating (e.g., 4.0 out of 5)."},
				"comments":       {Type: schema.String, Desc: "Additional comments or suggestions from the user."},
			},
			decodeFeedback, s.SubmitFeedback),
	}
}

type AvailabilityRequest struct {
	Location    string
	DateTime    string
	Guests      int
	Preferences []string
	Restaurant  string
}

type Availability struct {
	Available         bool                `json:"available"`
	MatchedRestaurant *string             `json:"matched_restaurant"`
	AvailableSlots    []capacity.TimeSlot `json:"available_slots"`
	DailySpecials     string              `json:"daily_specials"`
	PriceForTwo       string              `json:"price_for_two"`
	Amenities         []string            `json:"amenities"`
	Message           string              `json:"message,omitempty"`
}

func unavailable(message string) Availability {
	return Availability{AvailableSlots: []capacity.TimeSlot{}, Amenities: []string{}, Message: message}
}

// CheckAvailability is advisory: it holds nothing for a later MakeReservation.
func (s *Reservations) CheckAvailability(ctx context.Context, in AvailabilityRequest) (Availability, error) {
	if strings.TrimSpace(in.Location) == "" {
		return unavailable(msgMissingLocation), nil
	}
	at, err := capacity.ParseTimeSlot(in.DateTime)
	if err != nil {
		return unavailable(fmt.Sprintf(msgBadDateTime, in.DateTime)), nil
	}
	if in.Guests <= 0 {
		return unavailable(msgBadGuests), nil
	}

	r, err := s.store.FindRestaurant(ctx, capacity.RestaurantQuery{
		Location:  in.Location,
		Name:      in.Restaurant,
		Amenities: in.Preferences,
	})
	if errors.Is(err, capacity.ErrRestaurantNotFound) {
		return unavailable(""), nil
	}
	if err != nil {
		return Availability{}, err
	}

	free, err := s.store.AvailableCapacity(ctx, r.ID, at)
	if err != nil {
		return Availability{}, err
	}

	out := Availability{
		Available:         free >= in.Guests,
		MatchedRestaurant: &r.Name,
		DailySpecials:     r.Specials(),
		PriceForTwo:       capacity.NewMoney(s.currency, r.PriceForTwo).String(),
		Amenities:         r.Amenities.Slice(),
	}
	if out.Available {
		out.AvailableSlots = []capacity.TimeSlot{at}
		return out, nil
	}
	for i := 1; i <= fallbackSlots; i++ {
		out.AvailableSlots = append(out.AvailableSlots, at.Add(time.Duration(i)*time.Hour))
	}
	return out, nil
}

type ReservationRequest struct {
	UserName       string
	UserContact    string
	RestaurantName string
	DateTime       string
	Guests         int
}

type ReservationDetails struct {
	ReservationID   int64             `json:"reservation_id"`
	Restaurant      string            `json:"restaurant"`
	Location        string            `json:"location"`
	ReservationTime capacity.TimeSlot `json:"reservation_time"`
	Guests          int               `json:"guests"`
	Contact         string            `json:"contact"`
}

type Booking struct {
	Success            bool                `json:"success"`
	Message            string              `json:"message"`
	ReservationDetails *ReservationDetails `json:"reservation_details"`
}

// MakeReservation re-checks capacity itself and books atomically.
func (s *Reservations) MakeReservation(ctx context.Context, in ReservationRequest) (Booking, error) {
	if strings.TrimSpace(in.RestaurantName) == "" {
		return Booking{Message: msgMissingDetails}, nil
	}
	at, err := capacity.ParseTimeSlot(in.DateTime)
	if err != nil {
		return Booking{Message: fmt.Sprintf(msgBadDateTime, in.DateTime)}, nil
	}
	if in.Guests <= 0 {
		return Booking{Message: msgBadGuests}, nil
	}

	r, err := s.store.FindRestaurant(ctx, capacity.RestaurantQuery{Name: in.RestaurantName})
	if errors.Is(err, capacity.ErrRestaurantNotFound) {
		return Booking{Message: fmt.Sprintf(msgRestaurantNotFound, in.RestaurantName)}, nil
	}
	if err != nil {
		return Booking{}, err
	}

	res, err := s.store.BookIfAvailable(ctx, capacity.NewReservation{
		UserName:     in.UserName,
		UserContact:  in.UserContact,
		RestaurantID: r.ID,
		Time:         at,
		Guests:       in.Guests,
	})
	switch {
	case errors.Is(err, capacity.ErrCapacityExceeded):
		return Booking{Message: msgSlotFull}, nil
	case errors.Is(err, capacity.ErrRestaurantNotFound):
		return Booking{Message: fmt.Sprintf(msgRestaurantNotFound, in.RestaurantName)}, nil
	case errors.Is(err, capacity.ErrInvalidReservation):
		return Booking{Message: msgMissingDetails}, nil
	case err != nil:
		return Booking{}, err
	}

	return Booking{
		Success: true,
		Message: fmt.Sprintf(msgConfirmed, r.Name),
		ReservationDetails: &ReservationDetails{
			ReservationID:   res.ID,
			Restaurant:      r.Name,
			Location:        r.Location,
			ReservationTime: res.Slot(),
			Guests:          res.Guests,
			Contact:         res.UserContact,
		},
	}, nil
}

type CancellationRequest struct {
	ReservationID  int64
	UserContact    string
	RestaurantName string
	DateTime       string
}

type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CancelReservation looks up by id first, then by contact, restaurant and
// exact time.
func (s *Reservations) CancelReservation(ctx context.Context, in CancellationRequest) (Outcome, error) {
	var (
		res *capacity.Reservation
		err error
	)
	switch {
	case in.ReservationID > 0:
		res, err = s.store.GetReservation(ctx, in.ReservationID)
		if errors.Is(err, capacity.ErrReservationNotFound) {
			return Outcome{Message: fmt.Sprintf(msgReservationNotFound, in.ReservationID)}, nil
		}
		if err != nil {
			return Outcome{}, err
		}
	case in.UserContact != "" && in.RestaurantName != "" && in.DateTime != "":
		at, perr := capacity.ParseTimeSlot(in.DateTime)
		if perr != nil {
			return Outcome{Message: fmt.Sprintf(msgBadDateTime, in.DateTime)}, nil
		}
		r, ferr := s.store.FindRestaurant(ctx, capacity.RestaurantQuery{Name: in.RestaurantName})
		if errors.Is(ferr, capacity.ErrRestaurantNotFound) {
			return Outcome{Message: fmt.Sprintf(msgRestaurantNotFound, in.RestaurantName)}, nil
		}
		if ferr != nil {
			return Outcome{}, ferr
		}
		res, err = s.store.FindReservation(ctx, in.UserContact, r.ID, at)
		if errors.Is(err, capacity.ErrReservationNotFound) {
			return Outcome{Message: msgNoMatch}, nil
		}
		if err != nil {
			return Outcome{}, err
		}
	default:
		return Outcome{Message: msgNeedIdentifiers}, nil
	}

	if err := s.store.DeleteReservation(ctx, res.ID); err != nil {
		if errors.Is(err, capacity.ErrReservationNotFound) {
			return Outcome{Message: fmt.Sprintf(msgReservationNotFound, res.ID)}, nil
		}
		return Outcome{}, err
	}
	return Outcome{Success: true, Message: fmt.Sprintf(msgCanceled, res.UserName, res.Slot())}, nil
}

type FeedbackRequest struct {
	ReservationID int64
	Rating        *float64
	Comments      *string
}

// SubmitFeedback records feedback for an existing reservation. Ratings are
// clamped to 0..5.
func (s *Reservations) SubmitFeedback(ctx context.Context, in FeedbackRequest) (Outcome, error) {
	_, err := s.store.CreateFeedback(ctx, capacity.NewFeedback{
		ReservationID: in.ReservationID,
		Rating:        clampRating(in.Rating),
		Comments:      in.Comments,
	})
	if errors.Is(err, capacity.ErrReservationNotFound) {
		return Outcome{Message: fmt.Sprintf(msgReservationNotFound, in.ReservationID)}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Success: true, Message: msgFeedbackThanks}, nil
}

func clampRating(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := math.Min(math.Max(*r, 0), 5)
	return &v
}

func decodeAvailability(a Args) (AvailabilityRequest, error) {
	guests, _, err := a.Int("guests")
	if err != nil {
		return AvailabilityRequest{}, err
	}
	return AvailabilityRequest{
		Location:    a.String("location"),
		DateTime:    a.String("date_time"),
		Guests:      int(guests),
		Preferences: a.Strings("preferences"),
		Restaurant:  a.String("restaurant"),
	}, nil
}

func decodeReservation(a Args) (ReservationRequest, error) {
	guests, _, err := a.Int("guests")
	if err != nil {
		return ReservationRequest{}, err
	}
	return ReservationRequest{
		UserName:       a.String("user_name"),
		UserContact:    a.String("user_contact"),
		RestaurantName: a.String("restaurant_name"),
		DateTime:       a.String("date_time"),
		Guests:         int(guests),
	}, nil
}

func decodeCancellation(a Args) (CancellationRequest, error) {
	id, _, err := a.Int("reservation_id")
	if err != nil {
		return CancellationRequest{}, err
	}
	return CancellationRequest{
		ReservationID:  id,
		UserContact:    a.String("user_contact"),
		RestaurantName: a.String("restaurant_name"),
		DateTime:       a.String("date_time"),
	}, nil
}

func decodeFeedback(a Args) (FeedbackRequest, error) {
	id, _, err := a.Int("reservation_id")
	if err != nil {
		return FeedbackRequest{}, err
	}
	rating, err := a.Float("rating")
	if err != nil {
		return FeedbackRequest{}, err
	}
	var comments *string
	if c := a.OptionalString("comments"); c != nil {
		trimmed := strings.TrimSpace(*c)
		comments = &trimmed
	}
	return FeedbackRequest{ReservationID: id, Rating: rating, Comments: comments}, nil
}
