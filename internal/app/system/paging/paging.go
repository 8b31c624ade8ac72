// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is used when a caller omits or zeroes the page size.
// It can be raised at startup (search_page_size).
var DefaultPageSize = 20

// MaxPageSize caps page sizes parsed from a request.
const MaxPageSize = 100

// Page is a 1-based offset page.
type Page struct {
	Number int
	Size   int
}

// New fills defaults: number < 1 becomes 1, size < 1 becomes DefaultPageSize.
func New(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Skip is the number of documents before this page.
func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Size) }

// Limit is the page size as Mongo expects it.
func (p Page) Limit() int64 { return int64(p.Size) }

// HasNext reports whether documents remain after this page, given the total
// match count and how many rows this page returned.
func HasNext(total int64, p Page, returned int) bool {
	return total > p.Skip()+int64(returned)
}

// ParseRequest reads ?page= and ?size= (clamped to MaxPageSize).
func ParseRequest(r *http.Request) Page {
	return New(atoi(query.Get(r, "page")), min(atoi(query.Get(r, "size")), MaxPageSize))
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ApplyToFind sets skip, limit, and a (sortField, _id) sort so ties on the
// sort field still page deterministically.
func (p Page) ApplyToFind(find *options.FindOptions, sortField string, order int) *options.FindOptions {
	return find.
		SetSort(bson.D{{Key: sortField, Value: order}, {Key: "_id", Value: order}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit())
}
