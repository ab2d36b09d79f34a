// Package memory holds in-process repositories with the same contracts as
// the Mongo ones. Service tests run against them.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// clone deep-copies a document through its bson form.
func clone[T any](v *T) *T {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return out
}

// applySet merges a $set document into v by bson field name.
func applySet[T any](v *T, set bson.M) error {
	raw, err := bson.Marshal(v)
	if err != nil {
		return err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, val := range set {
		doc[k] = val
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return err
	}
	*v = *new(T)
	return bson.Unmarshal(raw, v)
}

// store is an insertion-ordered map of documents.
type store[T any] struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]*T
}

func newStore[T any]() store[T] {
	return store[T]{docs: make(map[string]*T)}
}

func (s *store[T]) put(id string, v *T) {
	if _, ok := s.docs[id]; !ok {
		s.order = append(s.order, id)
	}
	s.docs[id] = v
}

func (s *store[T]) remove(id string) bool {
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// each visits documents newest first.
func (s *store[T]) each(fn func(*T)) {
	for i := len(s.order) - 1; i >= 0; i-- {
		fn(s.docs[s.order[i]])
	}
}

func page[T any](items []T, p, limit int) []T {
	if limit <= 0 {
		return items
	}
	if p < 1 {
		p = 1
	}
	start := (p - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func dayKey(t time.Time) int64 {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func equalFold(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
