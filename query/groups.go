package query

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"

	"github.com/thomhuang/zipgeo/dataset"
)

// Groups maps a label to the codes carrying it. Keys keep the order they were
// first seen in and each key's codes keep dataset order.
type Groups struct {
	keys    []string
	members map[string][]string
}

// GroupByState buckets every code by its state.
func (e *Engine) GroupByState() *Groups {
	return groupBy(e.index.All(), func(r dataset.Record) string { return r.State })
}

// GroupByCounty buckets every code by its county.
func (e *Engine) GroupByCounty() *Groups {
	return groupBy(e.index.All(), func(r dataset.Record) string { return r.County })
}

func groupBy(records iter.Seq[dataset.Record], label func(dataset.Record) string) *Groups {
	g := &Groups{members: make(map[string][]string)}
	for r := range records {
		key := label(r)
		if _, seen := g.members[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.members[key] = append(g.members[key], r.Code)
	}
	return g
}

// Keys returns the labels in first-seen order.
func (g *Groups) Keys() []string {
	return slices.Clone(g.keys)
}

// Get returns the codes for key, or nil.
func (g *Groups) Get(key string) []string {
	return slices.Clone(g.members[key])
}

// Len returns the number of labels.
func (g *Groups) Len() int {
	return len(g.keys)
}

// All yields each label with its codes, in key order.
func (g *Groups) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, key := range g.keys {
			if !yield(key, slices.Clone(g.members[key])) {
				return
			}
		}
	}
}

// MarshalJSON encodes g as an object whose keys keep their order.
func (g *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range g.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(g.members[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
