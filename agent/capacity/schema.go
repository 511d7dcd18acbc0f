package capacity

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// createTableQueries lists the tables in dependency order. feedback.reservation_id
// carries no foreign key: feedback outlives a cancelled reservation.
func createTableQueries(db bun.IDB) []*bun.CreateTableQuery {
	return []*bun.CreateTableQuery{
		db.NewCreateTable().Model((*Restaurant)(nil)).IfNotExists(),
		db.NewCreateTable().Model((*Reservation)(nil)).IfNotExists().
			ForeignKey(`("restaurant_id") REFERENCES "restaurants" ("id") ON DELETE CASCADE`),
		db.NewCreateTable().Model((*Feedback)(nil)).IfNotExists(),
	}
}

// CreateSchema creates the restaurants, reservations and feedback relations if
// they do not exist.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, q := range createTableQueries(db) {
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("capacity: create table %s: %w", q.GetTableName(), err)
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{model: (*Reservation)(nil), name: "idx_reservations_restaurant_time", columns: []string{"restaurant_id", "reservation_time"}},
		{model: (*Reservation)(nil), name: "idx_reservations_contact", columns: []string{"user_contact"}},
		{model: (*Feedback)(nil), name: "idx_feedback_reservation", columns: []string{"reservation_id"}},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("capacity: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
