// Package dataset holds the immutable zip code index the queries run against.
//
// An Index is built once from an ordered slice of records and never changes
// afterwards, so it can be shared between goroutines without locking.
package dataset

import (
	"iter"

	"github.com/dhconnelly/rtreego"

	"github.com/thomhuang/zipgeo/geo"
)

// Record is one postal code with its location and administrative labels.
type Record struct {
	Code      string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	County    string  `json:"county"`
}

// Coordinates returns the record's location.
func (r Record) Coordinates() geo.Coordinates {
	return geo.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// Index maps postal codes to records and keeps the source order.
type Index struct {
	records []Record
	byCode  map[string]int

	// spatial prefilter over records with valid coordinates
	tree *rtreego.Rtree
	// positions of records the tree can't hold; always candidates
	loose []int
}

// New builds an Index from records, keeping their order. Codes must be unique.
func New(records []Record) (*Index, error) {
	ix := &Index{
		records: make([]Record, len(records)),
		byCode:  make(map[string]int, len(records)),
	}
	copy(ix.records, records)

	for i, r := range ix.records {
		if _, dup := ix.byCode[r.Code]; dup {
			return nil, &DuplicateCodeError{Code: r.Code}
		}
		ix.byCode[r.Code] = i
	}

	ix.buildTree()
	return ix, nil
}

// Lookup returns the record for code, or a *NotFoundError.
func (ix *Index) Lookup(code string) (Record, error) {
	i, ok := ix.byCode[code]
	if !ok {
		return Record{}, &NotFoundError{Code: code}
	}
	return ix.records[i], nil
}

// Contains reports whether code is in the index.
func (ix *Index) Contains(code string) bool {
	_, ok := ix.byCode[code]
	return ok
}

// Len returns the number of records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// All yields every record once, in stored order. The sequence can be ranged
// over any number of times.
func (ix *Index) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range ix.records {
			if !yield(r) {
				return
			}
		}
	}
}
