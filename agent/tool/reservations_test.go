package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/capacity"
)

func newReservations(t *testing.T) (*Reservations, *capacity.MemoryStore) {
	t.Helper()

	store := capacity.NewMemoryStore()
	require.NoError(t, capacity.SeedMemory(context.Background(), store))
	svc, err := NewReservations(store, Config{})
	require.NoError(t, err)
	return svc, store
}

func bookRoyalCurry(t *testing.T, svc *Reservations, contact, at string, guests int) Booking {
	t.Helper()

	out, err := svc.MakeReservation(context.Background(), ReservationRequest{
		UserName:       "Asha",
		UserContact:    contact,
		RestaurantName: "Royal Curry",
		DateTime:       at,
		Guests:         guests,
	})
	require.NoError(t, err)
	return out
}

func TestCheckAvailabilityFullSlotOffersFallbacks(t *testing.T) {
	t.Parallel()

	svc, _ := newReservations(t)
	require.True(t, bookRoyalCurry(t, svc, "9845000001", "2025-05-15T19:00", 8).Success)
	require.True(t, bookRoyalCurry(t, svc, "9845000002", "2025-05-15T19:30", 10).Success)

	out, err := svc.CheckAvailability(context.Background(), AvailabilityRequest{
		Location:   "koramangala",
		DateTime:   "2025-05-15T20:00",
		Guests:     3,
		Restaurant: "Royal Curry",
	})
	require.NoError(t, err)
	require.False(t, out.Available)
	require.NotNil(t, out.MatchedRestaurant)
	require.Equal(t, "Royal Curry House", *out.MatchedRestaurant)

	slots := make([]string, 0, len(out.AvailableSlots))
	for _, s := range out.AvailableSlots {
		slots = append(slots, s.String())
	}
	require.Equal(t, []string{"2025-05-15 21:00", "2025-05-15 22:00", "2025-05-15 23:00"}, slots)
	require.Equal(t, "₹1500", out.PriceForTwo)
	require.Equal(t, []string{"family-friendly", "valet parking", "air-conditioned"}, out.Amenities)

	out, err = svc.CheckAvailability(context.Background(), AvailabilityRequest{
		Location: "Koramangala", DateTime: "2025-05-15T20:00", Guests: 2, Restaurant: "Royal Curry",
	})
	require.NoError(t, err)
	require.True(t, out.Available)
	require.Len(t, out.AvailableSlots, 1)
	require.Equal(t, "2025-05-15 20:00", out.AvailableSlots[0].String())
}

func TestCheckAvailabilityNoMatch(t *testing.T) {
	t.Parallel()

	svc, _ := newReservations(t)
	out, err := svc.CheckAvailability(context.Background(), AvailabilityRequest{
		Location: "Jayanagar", DateTime: "2025-05-15T20:00", Guests: 2,
	})
	require.NoError(t, err)
	require.False(t, out.Available)
	require.Nil(t, out.MatchedRestaurant)
	require.Empty(t, out.AvailableSlots)
	require.Empty(t, out.Amenities)
	require.Empty(t, out.PriceForTwo)
}

func TestCheckAvailabilityPreferences(t *testing.T) {
	t.Parallel()

	svc, _ := newReservations(t)
	out, err := svc.CheckAvailability(context.Background(), AvailabilityRequest{
		Location: "Koramangala", DateTime: "2025-05-15T13:00", Guests: 4, Preferences: []string{"vegan"},
	})
	require.NoError(t, err)
	require.True(t, out.Available)
	require.Equal(t, "Green Leaf Kitchen", *out.MatchedRestaurant)
	require.Equal(t, "Jackfruit Biryani", out.DailySpecials)
}

func TestCheckAvailabilityBadInput(t *testing.T) {
	t.Parallel()

	svc, _ := newReservations(t)
	out, err := svc.CheckAvailability(context.Background(), AvailabilityRequest{
		Location: "Koramangala", DateTime: "tomorrow evening", Guests: 2,
	})
	require.NoError(t, err)
	require.False(t, out.Available)
	require.Contains(t, out.Message, "tomorrow evening")

	out, err = svc.CheckAvailability(context.Background(), AvailabilityRequest{
		Location: "Koramangala", DateTime: "2025-05-15T13:00", Guests: 0,
	})
	require.NoError(t, err)
	require.Equal(t, msgBadGuests, out.Message)
}

func TestMakeReservationRejectsOverbookingWithoutStateChange(t *testing.T) {
	t.Parallel()

	svc, store := newReservations(t)
	require.True(t, bookRoyalCurry(t, svc, "1", "2025-05-15T19:00", 8).Success)
	require.True(t, bookRoyalCurry(t, svc, "2", "2025-05-15T19:30", 10).Success)

	out := bookRoyalCurry(t, svc, "3", "2025-05-15T20:00", 3)
	require.False(t, out.Success)
	require.Equal(t, "Selected time slot is full. Please try a different time.", out.Message)
	require.Nil(t, out.ReservationDetails)
	require.Equal(t, 2, store.ReservationCount())
}

func TestMakeReservationConfirmation(t *testing.T) {
	t.Parallel()

	svc, _ := newReservations(t)
	out := bookRoyalCurry(t, svc, "9845012345", "2025-05-15T20:00", 4)
	require.True(t, out.Success)
	require.Equal(t, "Reservation confirmed at Royal Curry House!", out.Message)
	require.NotNil(t, out.ReservationDetails)
	require.Equal(t, "Koramangala", out.ReservationDetails.Location)
	require.Equal(t, "2025-05-15 20:00", out.ReservationDetails.ReservationTime.String())
	require.Equal(t, 4, out.ReservationDetails.Guests)
	require.Equal(t, "9845012345", out.ReservationDetails.Contact)

	out, err := svc.MakeReservation(context.Background(), ReservationRequest{
		UserName: "Asha", UserContact: "1", RestaurantName: "Nowhere Bistro", DateTime: "2025-05-15T20:00", Guests: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "No restaurant found named 'Nowhere Bistro'.", out.Message)
}

func TestCancelReservationModes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newReservations(t)

	out, err := svc.CancelReservation(ctx, CancellationRequest{
		UserContact: "9845012345", RestaurantName: "Royal Curry", DateTime: "2025-05-15T20:00",
	})
	require.NoError(t, err)
	require.Equal(t, Outcome{Message: "No matching reservation found with the given details."}, out)

	out, err = svc.CancelReservation(ctx, CancellationRequest{UserContact: "9845012345"})
	require.NoError(t, err)
	require.Equal(t, "Please provide either reservation ID or (contact, restaurant, and datetime).", out.Message)

	booked := bookRoyalCurry(t, svc, "9845012345", "2025-05-15T20:00", 4)
	out, err = svc.CancelReservation(ctx, CancellationRequest{
		UserContact: "9845012345", RestaurantName: "Royal Curry", DateTime: "2025-05-15 20:00:00",
	})
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Equal(t, "Reservation successfully canceled for Asha at 2025-05-15 20:00.", out.Message)
	require.Zero(t, store.ReservationCount())

	id := booked.ReservationDetails.ReservationID
	out, err = svc.CancelReservation(ctx, CancellationRequest{ReservationID: id})
	require.NoError(t, err)
	require.False(t, out.Success)
	require.Equal(t, "No reservation found with ID 1.", out.Message)
}

func TestCancelByIDMatchesCancelByDetails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newReservations(t)
	booked := bookRoyalCurry(t, svc, "555", "2025-05-16T12:00", 2)

	byID, err := svc.CancelReservation(ctx, CancellationRequest{ReservationID: booked.ReservationDetails.ReservationID})
	require.NoError(t, err)

	bookRoyalCurry(t, svc, "555", "2025-05-16T12:00", 2)
	byDetails, err := svc.CancelReservation(ctx, CancellationRequest{
		UserContact: "555", RestaurantName: "Royal Curry House", DateTime: "2025-05-16T12:00",
	})
	require.NoError(t, err)
	require.Equal(t, byID, byDetails)
}

func TestSubmitFeedback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newReservations(t)
	booked := bookRoyalCurry(t, svc, "555", "2025-05-16T12:00", 2)
	id := booked.ReservationDetails.ReservationID

	out, err := svc.SubmitFeedback(ctx, FeedbackRequest{ReservationID: id})
	require.NoError(t, err)
	require.Equal(t, Outcome{Success: true, Message: "Thank you for your feedback! It has been recorded successfully."}, out)

	rating := 4.5
	out, err = svc.SubmitFeedback(ctx, FeedbackRequest{ReservationID: id, Rating: &rating})
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Len(t, store.FeedbackFor(id), 2)

	high, low := 7.0, -2.0
	for _, r := range []*float64{&high, &low} {
		out, err = svc.SubmitFeedback(ctx, FeedbackRequest{ReservationID: id, Rating: r})
		require.NoError(t, err)
		require.True(t, out.Success)
	}
	recorded := store.FeedbackFor(id)
	require.Len(t, recorded, 4)
	require.Equal(t, 5.0, *recorded[2].Rating)
	require.Equal(t, 0.0, *recorded[3].Rating)

	out, err = svc.SubmitFeedback(ctx, FeedbackRequest{ReservationID: 999})
	require.NoError(t, err)
	require.Equal(t, "No reservation found with ID 999.", out.Message)
}

func TestFeedbackSurvivesCancellation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newReservations(t)
	booked := bookRoyalCurry(t, svc, "555", "2025-05-16T12:00", 2)
	id := booked.ReservationDetails.ReservationID

	comment := "Lovely biryani"
	for i := 0; i < 2; i++ {
		out, err := svc.SubmitFeedback(ctx, FeedbackRequest{ReservationID: id, Comments: &comment})
		require.NoError(t, err)
		require.True(t, out.Success)
	}

	out, err := svc.CancelReservation(ctx, CancellationRequest{ReservationID: id})
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Len(t, store.FeedbackFor(id), 2)
}

func TestBlankTargetsAreRejectedPolitely(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newReservations(t)

	avail, err := svc.CheckAvailability(ctx, AvailabilityRequest{Location: " ", DateTime: "2025-05-15T20:00", Guests: 2})
	require.NoError(t, err)
	require.False(t, avail.Available)
	require.Nil(t, avail.MatchedRestaurant)
	require.Equal(t, msgMissingLocation, avail.Message)

	booking, err := svc.MakeReservation(ctx, ReservationRequest{
		UserName: "Asha", UserContact: "1", RestaurantName: "", DateTime: "2025-05-15T20:00", Guests: 2,
	})
	require.NoError(t, err)
	require.False(t, booking.Success)
	require.Equal(t, msgMissingDetails, booking.Message)
	require.Zero(t, store.ReservationCount())
}
