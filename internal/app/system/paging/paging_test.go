package paging

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestNew_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		number, size int
		want         Page
	}{
		{"zero values", 0, 0, Page{Number: 1, Size: DefaultPageSize}},
		{"negative", -3, -1, Page{Number: 1, Size: DefaultPageSize}},
		{"explicit", 3, 10, Page{Number: 3, Size: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.number, tt.size); got != tt.want {
				t.Errorf("New(%d, %d) = %+v, want %+v", tt.number, tt.size, got, tt.want)
			}
		})
	}
}

func TestSkipLimit(t *testing.T) {
	p := New(3, 20)
	if p.Skip() != 40 {
		t.Errorf("Skip() = %d, want 40", p.Skip())
	}
	if p.Limit() != 20 {
		t.Errorf("Limit() = %d, want 20", p.Limit())
	}
}

func TestHasNext(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		page     Page
		returned int
		want     bool
	}{
		{"full first page with more", 25, Page{1, 20}, 20, true},
		{"last partial page", 25, Page{2, 20}, 5, false},
		{"exact fit", 20, Page{1, 20}, 20, false},
		{"empty", 0, Page{1, 20}, 0, false},
		{"beyond end", 25, Page{5, 20}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasNext(tt.total, tt.page, tt.returned); got != tt.want {
				t.Errorf("HasNext = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		url  string
		want Page
	}{
		{"/users", Page{1, DefaultPageSize}},
		{"/users?page=2&size=5", Page{2, 5}},
		{"/users?page=abc&size=xyz", Page{1, DefaultPageSize}},
		{"/users?size=5000", Page{1, MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := ParseRequest(r); got != tt.want {
				t.Errorf("ParseRequest(%s) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestApplyToFind(t *testing.T) {
	find := New(2, 10).ApplyToFind(options.Find(), "createdAt", -1)

	if find.Skip == nil || *find.Skip != 10 {
		t.Errorf("skip = %v, want 10", find.Skip)
	}
	if find.Limit == nil || *find.Limit != 10 {
		t.Errorf("limit = %v, want 10", find.Limit)
	}
	sort, ok := find.Sort.(bson.D)
	if !ok || len(sort) != 2 || sort[0].Key != "createdAt" || sort[1].Key != "_id" {
		t.Errorf("unexpected sort %v", find.Sort)
	}
}
