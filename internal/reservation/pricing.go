package reservation

import (
	"fmt"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
)

const secondsPerDay = 24 * 60 * 60

// Nights counts whole calendar days between check-in and check-out.
// Time of day and location are ignored.
func Nights(checkIn, checkOut time.Time) int {
	return int(epochDay(checkOut) - epochDay(checkIn))
}

// CalculatePrice returns nights × dailyRate in minor units.
func CalculatePrice(checkIn, checkOut time.Time, dailyRate money.Cents) (money.Cents, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return 0, ErrInvalidRange
	}

	total, err := dailyRate.MulInt(int64(nights))
	if err != nil {
		return 0, fmt.Errorf("price for %d nights at %s: %w", nights, dailyRate, err)
	}
	return total, nil
}

// epochDay numbers the calendar day of t relative to 1970-01-01. Midnight
// UTC is a whole multiple of a day, so the division is exact on both sides
// of the epoch.
func epochDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}
