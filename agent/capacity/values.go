package capacity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	TimeSlotLayout      = "2006-01-02 15:04"
	NotAvailable        = "Not available"
	DefaultCurrencySign = "₹"
)

// Money is an optional whole-currency amount. Fractions are truncated, matching
// how prices are quoted to guests.
type Money struct {
	Symbol string
	Amount int64
	Valid  bool
}

func NewMoney(symbol string, amount *float64) Money {
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return Money{Symbol: symbol}
	}
	return Money{Symbol: symbol, Amount: int64(*amount), Valid: true}
}

func (m Money) String() string {
	if !m.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%s%d", m.Symbol, m.Amount)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// AmenitySet is an ordered set of amenity tags, persisted as comma-separated text.
type AmenitySet []string

func ParseAmenities(raw string) AmenitySet {
	if strings.TrimSpace(raw) == "" {
		return AmenitySet{}
	}
	parts := strings.Split(raw, ",")
	out := make(AmenitySet, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (a AmenitySet) String() string {
	return strings.Join(a, ", ")
}

// MatchesAll reports whether every filter is a case-insensitive substring of
// the set's text form.
func (a AmenitySet) MatchesAll(filters []string) bool {
	text := strings.ToLower(a.String())
	for _, f := range filters {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !strings.Contains(text, f) {
			return false
		}
	}
	return true
}

func (a AmenitySet) Slice() []string {
	if a == nil {
		return []string{}
	}
	return append([]string(nil), a...)
}

func (a AmenitySet) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return a.String(), nil
}

func (a *AmenitySet) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = AmenitySet{}
	case string:
		*a = ParseAmenities(v)
	case []byte:
		*a = ParseAmenities(string(v))
	default:
		return fmt.Errorf("capacity: cannot scan %T into AmenitySet", src)
	}
	return nil
}

// TimeSlot is a reservation start time at minute precision.
type TimeSlot struct {
	time.Time
}

var ErrInvalidDateTime = errors.New("invalid date time")

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
}

// ParseTimeSlot accepts the ISO 8601 forms guests and models send. All values
// are read as restaurant wall-clock times; an offset, if present, is dropped.
func ParseTimeSlot(raw string) (TimeSlot, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TimeSlot{}, fmt.Errorf("%w: empty value", ErrInvalidDateTime)
	}
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return SlotAt(t), nil
		}
	}
	return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, raw)
}

// SlotAt keeps t's wall-clock reading in its own location and labels it UTC,
// matching the zone-less reservation_time column.
func SlotAt(t time.Time) TimeSlot {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return TimeSlot{Time: wall}
}

func (s TimeSlot) Add(d time.Duration) TimeSlot {
	return TimeSlot{Time: s.Time.Add(d)}
}

func (s TimeSlot) String() string {
	return s.Time.Format(TimeSlotLayout)
}

func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
