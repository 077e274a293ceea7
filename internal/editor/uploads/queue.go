package uploads

import (
	"encoding/json"
	"slices"
)

// Queue keeps at most one PendingUpload per element, in insertion order.
// It is not safe for concurrent use; the owner serialises access.
type Queue struct {
	order []string
	items map[string]PendingUpload
}

func NewQueue() *Queue {
	return &Queue{items: make(map[string]PendingUpload)}
}

// Put registers p. An existing entry for the same element is replaced and
// moves to the tail.
func (q *Queue) Put(p PendingUpload) {
	if _, ok := q.items[p.ElementID]; ok {
		q.removeFromOrder(p.ElementID)
	}
	q.items[p.ElementID] = p
	q.order = append(q.order, p.ElementID)
}

func (q *Queue) Get(elementID string) (PendingUpload, bool) {
	p, ok := q.items[elementID]
	return p, ok
}

func (q *Queue) Has(elementID string) bool {
	_, ok := q.items[elementID]
	return ok
}

// Delete drops the entry for elementID and reports whether one existed.
func (q *Queue) Delete(elementID string) bool {
	if _, ok := q.items[elementID]; !ok {
		return false
	}
	delete(q.items, elementID)
	q.removeFromOrder(elementID)
	return true
}

// Complete drops the entry for elementID only if it still carries token.
func (q *Queue) Complete(elementID, token string) bool {
	p, ok := q.items[elementID]
	if !ok || p.Token != token {
		return false
	}
	return q.Delete(elementID)
}

// List returns the entries in FIFO order.
func (q *Queue) List() []PendingUpload {
	out := make([]PendingUpload, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, q.items[id])
	}
	return out
}

func (q *Queue) Len() int {
	return len(q.order)
}

func (q *Queue) Clear() {
	q.order = nil
	clear(q.items)
}

func (q *Queue) removeFromOrder(elementID string) {
	if i := slices.Index(q.order, elementID); i >= 0 {
		q.order = slices.Delete(q.order, i, i+1)
	}
}

// MarshalJSON encodes the queue as an ordered list.
func (q *Queue) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.List())
}

func (q *Queue) UnmarshalJSON(b []byte) error {
	var list []PendingUpload
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	q.order = nil
	q.items = make(map[string]PendingUpload, len(list))
	for _, p := range list {
		q.Put(p)
	}
	return nil
}
