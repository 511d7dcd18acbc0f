package capacity

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func ptr[T any](v T) *T { return &v }

// SeedRestaurants is the FoodieSpot catalogue loaded by `migrate --seed` and
// the in-memory chat store.
func SeedRestaurants() []Restaurant {
	return []Restaurant{
		{
			Name: "Royal Curry House", Location: "Koramangala", Cuisine: "North Indian",
			SeatingCapacity: 20, Rating: ptr(4.5), PriceForTwo: ptr(1500.0), ContactNumber: "080-41234567",
			DailySpecials: ptr("Butter Chicken Deluxe, Paneer Tikka Platter, Jalebi with Rabdi"),
			Amenities:     ParseAmenities("family-friendly, valet parking, air-conditioned"),
		},
		{
			Name: "Spice Garden Rooftop", Location: "Indiranagar", Cuisine: "Italian",
			SeatingCapacity: 40, Rating: ptr(4.2), PriceForTwo: ptr(2200.0), ContactNumber: "080-42345678",
			DailySpecials: ptr("Truffle Mushroom Risotto, Wood-fired Margherita"),
			Amenities:     ParseAmenities("rooftop, live music, vegan options"),
		},
		{
			Name: "Coastal Catch", Location: "Whitefield", Cuisine: "Seafood",
			SeatingCapacity: 30, Rating: ptr(4.0), PriceForTwo: ptr(1800.0), ContactNumber: "080-43456789",
			Amenities: ParseAmenities("outdoor seating, bar"),
		},
		{
			Name: "Green Leaf Kitchen", Location: "Koramangala", Cuisine: "Vegan",
			SeatingCapacity: 12, Rating: ptr(4.7), PriceForTwo: ptr(900.0), ContactNumber: "080-44567890",
			DailySpecials: ptr("Jackfruit Biryani"),
			Amenities:     ParseAmenities("vegan options, pet-friendly, wifi"),
		},
		{
			Name: "Dragon Wok", Location: "HSR Layout", Cuisine: "Chinese",
			SeatingCapacity: 25, Rating: ptr(3.9), PriceForTwo: ptr(1200.0), ContactNumber: "080-45678901",
			Amenities: ParseAmenities("family-friendly, takeaway"),
		},
	}
}

// SeedMemory loads the catalogue into a MemoryStore.
func SeedMemory(ctx context.Context, s *MemoryStore) error {
	for _, r := range SeedRestaurants() {
		if _, err := s.AddRestaurant(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts the catalogue when the restaurants relation is empty.
func Seed(ctx context.Context, db bun.IDB) (int, error) {
	count, err := db.NewSelect().Model((*Restaurant)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("capacity: count restaurants: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	rows := SeedRestaurants()
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return 0, fmt.Errorf("capacity: seed restaurants: %w", err)
	}
	return len(rows), nil
}
