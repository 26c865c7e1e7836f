// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by stores when the addressed document does not exist
// (or, for conditional updates, when the filter matched nothing).
var ErrNotFound = errors.New("not found")

// ISODateLayout is the calendar-date format used by date-string fields.
const ISODateLayout = "2006-01-02"

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(limit, page int64) *options.FindOptions {
	limit, skip := Window(limit, page)
	return options.Find().SetLimit(limit).SetSkip(skip)
}

// Window returns the limit and skip for a 1-based page. A non-positive limit
// becomes 20 and a non-positive page becomes 1. The skip saturates at
// math.MaxInt64 instead of overflowing.
func Window(limit, page int64) (int64, int64) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	if page-1 > math.MaxInt64/limit {
		return limit, math.MaxInt64
	}
	return limit, (page - 1) * limit
}

// TotalPages returns ceil(total/perPage), or 0 when perPage is not positive.
func TotalPages(total, perPage int64) int64 {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// NotFound maps mongo.ErrNoDocuments to ErrNotFound and passes anything else through.
func NotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// DayBounds returns the UTC calendar day containing t as [from, to).
func DayBounds(t time.Time) (from, to time.Time) {
	t = t.UTC()
	from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

// ISODate formats t as YYYY-MM-DD in UTC.
func ISODate(t time.Time) string {
	return t.UTC().Format(ISODateLayout)
}
