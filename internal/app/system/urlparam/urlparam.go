// Package urlparam reads chi route parameters and paging query parameters.
package urlparam

import (
	"math"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String returns the trimmed route parameter name.
func String(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// ObjectID parses route parameter name as an ObjectID. Callers report a
// malformed id as 404, the same as a missing record.
func ObjectID(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(String(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// Page size bounds. DefaultPerPage applies when perPage is omitted.
const (
	DefaultPerPage = 6
	MaxPerPage     = 100
)

// Paging reads the page and perPage query parameters. Omitted values default
// to 1 and DefaultPerPage. It reports false when either is non-numeric or
// below 1, when perPage exceeds MaxPerPage, or when the page's skip offset
// would not fit in an int64.
func Paging(r *http.Request) (page, perPage int64, ok bool) {
	q := r.URL.Query()
	p, ok1 := formutil.PositiveInt(q.Get("page"), 1)
	pp, ok2 := formutil.PositiveInt(q.Get("perPage"), DefaultPerPage)
	if !ok1 || !ok2 || pp > MaxPerPage {
		return 0, 0, false
	}
	page, perPage = int64(p), int64(pp)
	if page-1 > math.MaxInt64/perPage {
		return 0, 0, false
	}
	return page, perPage, true
}
